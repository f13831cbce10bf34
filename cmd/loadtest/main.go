package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	promadapter "github.com/codewandler/termcache/adapters/prometheus"
	"github.com/codewandler/termcache/core/cache"
	"github.com/codewandler/termcache/core/term"
)

// === Config ===

var (
	logLevel    = slog.LevelInfo
	N           = getEnvInt("N", 100_000)
	workers     = getEnvInt("W", runtime.NumCPU())
	capacity    = getEnvInt("CAP", 1_000)
	keySpace    = getEnvInt("KEYS", 5_000)
	maxRetries  = getEnvInt("RETRIES", 1_000)
	metricsAddr = getEnv("METRICS_ADDR", "")
	hold        = getEnvBool("HOLD", false)
)

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	return v == "1" || strings.ToLower(v) == "true"
}

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, fmt.Sprintf("%d", fallback)))
	if err != nil {
		return fallback
	}
	return v
}

// === Stats ===

type stats struct {
	ops        atomic.Int64
	hits       atomic.Int64
	misses     atomic.Int64
	evictions  atomic.Int64
	contention atomic.Int64
	gaveUp     atomic.Int64
}

// retry runs fn until it gets past lock contention or runs out of attempts.
func (s *stats) retry(fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if !errors.Is(err, cache.ErrLockContention) {
			return err
		}
		s.contention.Add(1)
		if attempt >= maxRetries {
			s.gaveUp.Add(1)
			return err
		}
		runtime.Gosched()
	}
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	reg := prometheus.NewRegistry()
	h, err := cache.New(capacity,
		cache.WithName("loadtest"),
		cache.WithLogger(log),
		cache.WithMetrics(promadapter.NewCacheMetrics(reg)),
	)
	checkErr(err)
	defer h.Release()

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			log.Info("prometheus metrics server starting", slog.String("addr", metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("prometheus server error", slog.Any("error", err))
			}
		}()
		defer srv.Close()
	}

	log.Info("==================================")
	log.Info("Starting ...",
		slog.Int("ops", N),
		slog.Int("workers", workers),
		slog.Int("capacity", capacity),
		slog.Int("keys", keySpace),
	)

	var (
		st      stats
		wg      sync.WaitGroup
		startAt = time.Now()
		perW    = N / max(workers, 1)
	)

	for w := range workers {
		c, err := h.Clone()
		checkErr(err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer c.Release()
			run(c, &st, int64(w), perW)
		}()
	}
	wg.Wait()

	took := time.Since(startAt)

	n, err := h.Len()
	checkErr(err)

	println("")
	println("==========================================")
	fmt.Printf("total runtime: %.3f seconds\n", took.Seconds())
	fmt.Printf("   operations: %d\n", st.ops.Load())
	fmt.Printf("        ops/s: %d\n", int(float64(st.ops.Load())/took.Seconds()))
	fmt.Printf("    hits/miss: %d / %d\n", st.hits.Load(), st.misses.Load())
	fmt.Printf("    evictions: %d\n", st.evictions.Load())
	fmt.Printf("   contention: %d (gave up %d)\n", st.contention.Load(), st.gaveUp.Load())
	fmt.Printf("      entries: %d / %d\n", n, capacity)

	if hold && metricsAddr != "" {
		log.Info("holding for metrics scrape, interrupt to exit")
		select {}
	}
}

func run(h *cache.Handle, st *stats, seed int64, ops int) {
	rnd := rand.New(rand.NewSource(seed))

	for i := 0; i < ops; i++ {
		k := term.Tuple{term.Atom("key"), term.Int(rnd.Intn(keySpace))}

		switch rnd.Intn(10) {
		case 0, 1, 2:
			v := term.List{term.Int(seed), term.Int(i), term.Bytes(strconv.Itoa(i))}
			_ = st.retry(func() error {
				_, evicted, err := h.Put(k, v)
				if evicted {
					st.evictions.Add(1)
				}
				return err
			})
		case 3:
			_ = st.retry(func() error {
				_, err := h.Peek(k)
				return countLookup(st, err)
			})
		case 4:
			_ = st.retry(func() error {
				_, err := h.Pop(k)
				return countLookup(st, err)
			})
		default:
			_ = st.retry(func() error {
				_, err := h.Get(k)
				return countLookup(st, err)
			})
		}
		st.ops.Add(1)
	}
}

func countLookup(st *stats, err error) error {
	switch {
	case err == nil:
		st.hits.Add(1)
	case errors.Is(err, cache.ErrNotFound):
		st.misses.Add(1)
		return nil
	}
	return err
}

// === Helpers ===

func checkErr(err error) {
	if err != nil {
		panic(err)
	}
}
