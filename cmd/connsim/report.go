package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	dto "github.com/prometheus/client_model/go"

	"github.com/pavanmanishd/connpool"
)

// summary aggregates connection results sharing a backing.
type summary struct {
	backing     connpool.Backing
	connections int
	requests    int
	authorized  int
	challenged  int
	refused     int
	peakInUse   int
	capacity    int
}

func summarize(results []connResult) []summary {
	byBacking := make(map[connpool.Backing]*summary)
	for _, r := range results {
		s, ok := byBacking[r.backing]
		if !ok {
			s = &summary{backing: r.backing}
			byBacking[r.backing] = s
		}
		s.connections++
		s.requests += r.requests
		s.authorized += r.authorized
		s.challenged += r.challenged
		s.refused += r.refused
		s.capacity += r.capacity
		if r.peakInUse > s.peakInUse {
			s.peakInUse = r.peakInUse
		}
	}
	out := make([]summary, 0, len(byBacking))
	for _, s := range byBacking {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].backing < out[j].backing })
	return out
}

func report(w io.Writer, sums []summary, families []*dto.MetricFamily) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Backing", "Conns", "Requests", "Authorized", "Challenged", "Refused", "Peak in use", "Reserved"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range sums {
		table.Append([]string{
			s.backing.String(),
			strconv.Itoa(s.connections),
			strconv.Itoa(s.requests),
			strconv.Itoa(s.authorized),
			strconv.Itoa(s.challenged),
			strconv.Itoa(s.refused),
			strconv.Itoa(s.peakInUse),
			strconv.Itoa(s.capacity),
		})
	}
	table.Render()

	metrics := tablewriter.NewWriter(w)
	metrics.SetHeader([]string{"Metric", "Labels", "Value"})
	metrics.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var labels string
			for _, l := range m.GetLabel() {
				labels += fmt.Sprintf("%s=%s ", l.GetName(), l.GetValue())
			}
			metrics.Append([]string{f.GetName(), labels, formatValue(m)})
		}
	}
	metrics.Render()
}

func formatValue(m *dto.Metric) string {
	switch {
	case m.GetGauge() != nil:
		return strconv.FormatFloat(m.GetGauge().GetValue(), 'f', -1, 64)
	case m.GetCounter() != nil:
		return strconv.FormatFloat(m.GetCounter().GetValue(), 'f', -1, 64)
	default:
		return "-"
	}
}
