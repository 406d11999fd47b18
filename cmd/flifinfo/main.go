// Command flifinfo decodes FLIF headers and reports dimensions, channel
// layout, bit depth and metadata as JSON.
//
// Usage:
//
//	flifinfo [options] <input.flif> [more.flif ...]
//
// Use "-" as an input path to read a single stream from stdin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/deepteams/flif"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("flifinfo", flag.ContinueOnError)
	resolve := fs.Bool("resolve", false, "resolve decode geometry (scale/resize/fit) instead of reading the header only")
	scaleDown := fs.Uint("scale_down", 1, "scale-down factor, a power of two in [1,128]; only used with -resolve")
	maxBuffer := fs.Uint64("max_buffer", flif.DefaultOptions().MaxImageBufferSize, "maximum estimated decode buffer size in bytes")
	logPath := fs.String("log", "", "path to a log file (rotated via lumberjack); stderr if empty")
	concurrency := fs.Int("j", 4, "maximum number of files decoded concurrently")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "flifinfo: missing input file\nUsage: flifinfo [options] <input.flif> [more.flif ...]")
		return 2
	}

	logger := newLogger(*logPath)
	defer logger.Sync() //nolint:errcheck

	opts := flif.DefaultOptions()
	opts.MaxImageBufferSize = *maxBuffer
	opts.ScaleDown = uint8(*scaleDown)

	results := make([]result, fs.NArg())
	paths := fs.Args()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = inspect(path, opts, *resolve, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("decode group failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		if err := enc.Encode(results[0]); err != nil {
			logger.Error("encoding result", zap.Error(err))
			return 1
		}
	} else {
		if err := enc.Encode(results); err != nil {
			logger.Error("encoding results", zap.Error(err))
			return 1
		}
	}

	for _, r := range results {
		if r.Error != "" {
			return 1
		}
	}
	return 0
}

// result is the JSON-serializable outcome of inspecting one file.
type result struct {
	File       string  `json:"file"`
	Error      string  `json:"error,omitempty"`
	Width      uint64  `json:"width,omitempty"`
	Height     uint64  `json:"height,omitempty"`
	NChannels  uint8   `json:"channels,omitempty"`
	NFrames    uint64  `json:"frames,omitempty"`
	Encoding   string  `json:"encoding,omitempty"`
	HighestBpp uint8   `json:"highest_bpp,omitempty"`
	AlphaZero  bool    `json:"alpha_zero,omitempty"`
	NLoops     *uint8  `json:"loop_count,omitempty"`
	Metadata   []chunk `json:"metadata,omitempty"`

	TargetWidth  uint64 `json:"target_width,omitempty"`
	TargetHeight uint64 `json:"target_height,omitempty"`
	Scale        uint8  `json:"scale,omitempty"`
}

type chunk struct {
	Kind  string `json:"kind"`
	Bytes int    `json:"bytes"`
}

func inspect(path string, opts flif.DecoderOptions, resolve bool, logger *zap.Logger) result {
	r := result{File: path}

	f, err := openInput(path)
	if err != nil {
		logger.Warn("opening input", zap.String("file", path), zap.Error(err))
		r.Error = err.Error()
		return r
	}
	defer f.Close()

	var info *flif.Info
	if resolve {
		dec, err := flif.Decode(f, opts)
		if err != nil {
			logger.Warn("decoding", zap.String("file", path), zap.Error(err))
			r.Error = err.Error()
			return r
		}
		info = dec.Info
		r.TargetWidth = dec.Prelude.TargetWidth
		r.TargetHeight = dec.Prelude.TargetHeight
		r.Scale = dec.Prelude.Scale
	} else {
		i, err := flif.GetInfo(f)
		if err != nil {
			logger.Warn("reading header", zap.String("file", path), zap.Error(err))
			r.Error = err.Error()
			return r
		}
		info = i
	}

	r.Width, r.Height = info.Width, info.Height
	r.NChannels = info.NChannels
	r.NFrames = info.NFrames
	r.Encoding = info.Encoding.String()
	r.HighestBpp = info.HighestBpp
	r.AlphaZero = info.AlphaZero
	r.NLoops = info.NLoops
	for _, m := range info.Metadata {
		r.Metadata = append(r.Metadata, chunk{Kind: m.Kind.String(), Bytes: len(m.Data)})
	}
	logger.Debug("decoded header", zap.String("file", path), zap.Uint64("width", r.Width), zap.Uint64("height", r.Height))
	return r
}

func openInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

// newLogger builds a zap logger writing to stderr, or to a lumberjack-rotated
// file when logPath is non-empty.
func newLogger(logPath string) *zap.Logger {
	if logPath == "" {
		logger, err := zap.NewProduction()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}

	w := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core)
}
