package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pttech/modcheck/app/phrases"
	"github.com/pttech/modcheck/app/webapi"
	"github.com/pttech/modcheck/lib/analysis"
	"github.com/pttech/modcheck/lib/modcheck"
)

type options struct {
	ListenAddr string `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`

	MaxReviewLen   int `long:"max-review-len" env:"MAX_REVIEW_LEN" default:"1000" description:"review length cap in characters"`
	MaxQuestionLen int `long:"max-question-len" env:"MAX_QUESTION_LEN" default:"500" description:"question length cap in characters"`

	Files struct {
		GenericPhrasesFile string `long:"generic-phrases" env:"GENERIC_PHRASES" default:"" description:"generic praise phrases file, overrides built-in list"`
		SpamPhrasesFile    string `long:"spam-phrases" env:"SPAM_PHRASES" default:"" description:"spam keywords file, overrides built-in list"`
		Watch              bool   `long:"watch" env:"WATCH" description:"reload phrase files on change"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated suspect reports log"`
		FileName   string `long:"file" env:"FILE" default:"modcheck.log" description:"location of suspect reports log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("modcheck %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	analyzer := modcheck.NewAnalyzer(modcheck.Config{
		MaxReviewLen:   opts.MaxReviewLen,
		MaxQuestionLen: opts.MaxQuestionLen,
	})

	loader := phrases.NewLoader(ctx, analyzer, phrases.Config{
		GenericPhrasesFile: opts.Files.GenericPhrasesFile,
		SpamPhrasesFile:    opts.Files.SpamPhrasesFile,
		Watch:              opts.Files.Watch,
	})
	if err := loader.Reload(); err != nil {
		return fmt.Errorf("can't load phrase files, %w", err)
	}

	logWriter, err := makeSuspectLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make suspect log writer, %w", err)
	}
	defer logWriter.Close()

	srv := webapi.NewServer(webapi.Config{
		Version:    revision,
		ListenAddr: opts.ListenAddr,
		Analyzer:   analyzer,
		SuspectLog: makeSuspectLogger(logWriter),
		Dbg:        opts.Dbg,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("webapi server failed, %w", err)
	}
	return nil
}

// makeSuspectLogger creates a logger to keep reports about suspicious texts,
// it writes json lines to the provided writer
func makeSuspectLogger(wr io.Writer) webapi.SuspectLog {
	return webapi.SuspectLogFunc(func(kind analysis.Kind, text string, res analysis.Result) {
		text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
		log.Printf("[INFO] suspicious %s detected, score %d: %q", kind, res.SuspicionScore, text)
		m := struct {
			TimeStamp string   `json:"ts"`
			Kind      string   `json:"kind"`
			Text      string   `json:"text"`
			Score     int      `json:"score"`
			Reasons   []string `json:"reasons"`
		}{
			TimeStamp: time.Now().In(time.Local).Format(time.RFC3339),
			Kind:      string(kind),
			Text:      text,
			Score:     res.SuspicionScore,
			Reasons:   res.Reasons,
		}
		line, err := json.Marshal(&m)
		if err != nil {
			log.Printf("[WARN] can't marshal json, %v", err)
			return
		}
		if _, err := wr.Write(append(line, '\n')); err != nil {
			log.Printf("[WARN] can't write to log, %v", err)
		}
	})
}

// makeSuspectLogWriter creates a suspect log writer with rotation,
// it parses options and makes lumberjack logger
func makeSuspectLogWriter(opts options) (accessLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] logger enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
