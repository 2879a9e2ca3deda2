package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pavanmanishd/connpool"
	"github.com/pavanmanishd/connpool/basicauth"
)

// connResult is what one simulated connection observed.
type connResult struct {
	id         int
	backing    connpool.Backing
	requests   int
	authorized int
	challenged int
	refused    int
	peakInUse  int
	capacity   int
}

var headerEnd = []byte("\r\n\r\n")

// simulate runs cfg.Connections connections concurrently. Each connection
// owns its pool for its whole life.
func simulate(ctx context.Context, cfg Config, log logrus.FieldLogger) ([]connResult, error) {
	results := make([]connResult, cfg.Connections)
	g, ctx := errgroup.WithContext(ctx)
	for i := range results {
		i := i
		g.Go(func() error {
			res, err := runConnection(ctx, i, cfg, log.WithField("conn", i))
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// request builds the bytes a client would send for request n. Every third
// request carries wrong credentials.
func request(cfg Config, conn, n int) []byte {
	pass := cfg.Password
	if n%3 == 2 {
		pass = "wrong"
	}
	tok := base64.StdEncoding.EncodeToString([]byte(cfg.User + ":" + pass))
	return []byte(fmt.Sprintf("GET /conn/%d/req/%d HTTP/1.1\r\nHost: connsim\r\nAuthorization: Basic %s\r\n\r\n", conn, n, tok))
}

func runConnection(ctx context.Context, id int, cfg Config, log logrus.FieldLogger) (connResult, error) {
	res := connResult{id: id}
	p, err := connpool.New(cfg.PoolSize, connpool.WithMapThreshold(cfg.MapThreshold), connpool.WithLogger(log))
	if err != nil {
		return res, errors.Wrapf(err, "connection %d", id)
	}
	defer func() {
		if err := p.Destroy(); err != nil {
			log.WithError(err).Error("destroying pool")
		}
	}()
	res.backing, res.capacity = p.Backing(), p.Capacity()

	// The client pipelines: the stream is every request back to back.
	var stream []byte
	for n := 0; n < cfg.Requests; n++ {
		stream = append(stream, request(cfg, id, n)...)
	}

	buf, err := p.Allocate(cfg.ReadChunk, false)
	if err != nil {
		return res, errors.Wrapf(err, "connection %d: read buffer", id)
	}
	filled := 0
	for res.requests < cfg.Requests {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		end := bytes.Index(buf[:filled], headerEnd)
		if end < 0 {
			if len(stream) == 0 {
				break
			}
			if filled == len(buf) {
				nb, err := p.Reallocate(buf, len(buf)+cfg.ReadChunk)
				if err != nil {
					// Request too large for the pool: drop it and start over.
					res.refused++
					log.WithError(err).Debug("read buffer exhausted")
					buf, filled = p.Reset(buf[:0], cfg.ReadChunk), 0
					continue
				}
				buf = nb
			}
			n := copy(buf[filled:], stream[:min(len(stream), cfg.ReadChunk)])
			stream = stream[n:]
			filled += n
			continue
		}
		end += len(headerEnd)

		res.requests++
		if err := serve(p, buf[:end], cfg, &res); err != nil {
			res.refused++
			log.WithError(err).Debug("request refused")
		}
		if in := p.InUse(); in > res.peakInUse {
			res.peakInUse = in
		}

		// Keep the pipelined bytes already read for the next request.
		rest := filled - end
		buf = p.Reset(buf[end:filled], max(rest, cfg.ReadChunk))
		filled = rest
	}
	log.WithFields(logrus.Fields{
		"requests":   res.requests,
		"authorized": res.authorized,
		"peak":       res.peakInUse,
	}).Debug("connection done")
	return res, nil
}

// serve checks the Authorization header of one request.
func serve(p *connpool.Pool, head []byte, cfg Config, res *connResult) error {
	var auth []byte
	for _, line := range bytes.Split(head, []byte("\r\n")) {
		name, value, ok := bytes.Cut(line, []byte(":"))
		if ok && bytes.EqualFold(name, []byte("Authorization")) {
			auth = value
			break
		}
	}

	creds, err := basicauth.FromHeader(p, auth)
	if err != nil && !errors.Is(err, basicauth.ErrNoCredentials) && !errors.Is(err, basicauth.ErrMalformed) {
		return err
	}
	defer creds.Wipe()

	if err == nil && string(creds.Username) == cfg.User && creds.HasPassword && string(creds.Password) == cfg.Password {
		res.authorized++
		return nil
	}
	if _, err := basicauth.Challenge(p, cfg.Realm, true); err != nil {
		return err
	}
	res.challenged++
	return nil
}
