package main

import (
	"bufio"
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

	"github.com/umputun/langid/app/reload"
	"github.com/umputun/langid/app/storage"
	"github.com/umputun/langid/app/storage/engine"
	"github.com/umputun/langid/app/webapi"
	"github.com/umputun/langid/lib/langcheck"
	"github.com/umputun/langid/lib/langid"
)

type options struct {
	Languages   []string `long:"lang" env:"LANGUAGES" env-delim:"," description:"candidate languages, names or ISO codes, all if not set"`
	Spoken      bool     `long:"spoken" env:"SPOKEN" description:"use all spoken languages if no candidates set"`
	MinDistance float64  `long:"min-distance" env:"MIN_DISTANCE" default:"0" description:"minimum relative distance between top languages, [0,1)"`
	Preload     bool     `long:"preload" env:"PRELOAD" description:"load all language models on start"`
	Confidence  bool     `long:"confidence" description:"print confidence distribution"`
	Stats       bool     `long:"stats" description:"print stored detection stats and exit"`

	Models struct {
		Dir        string        `long:"dir" env:"DIR" description:"directory with language models, embedded models if not set"`
		Watch      bool          `long:"watch" env:"WATCH" description:"reload detector on changes in models directory"`
		WatchDelay time.Duration `long:"watch-delay" env:"WATCH_DELAY" default:"1s" description:"delay before reload after last change"`
	} `group:"models" namespace:"models" env-namespace:"MODELS"`

	Server struct {
		Enabled    bool          `long:"enabled" env:"ENABLED" description:"enable web server"`
		ListenAddr string        `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthPasswd string        `long:"auth" env:"AUTH" default:"" description:"basic auth password for user 'langid', 'auto' to generate"`
		CacheTTL   time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"10m" description:"ttl of cached detections, 0 to disable"`
		CacheSize  int           `long:"cache-size" env:"CACHE_SIZE" default:"1000" description:"max number of cached detections"`
		RateLimit  float64       `long:"rate-limit" env:"RATE_LIMIT" default:"0" description:"max requests per second per client, 0 to disable"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Storage struct {
		File    string `long:"file" env:"FILE" description:"sqlite file to keep detections, in-memory history if not set"`
		MaxSize int    `long:"max-size" env:"MAX_SIZE" default:"10000" description:"max number of stored detections"`
	} `group:"storage" namespace:"storage" env-namespace:"STORAGE"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated detection logs"`
		FileName   string `long:"file" env:"FILE"  default:"langid.log" description:"location of detection log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.Usage = "[OPTIONS] [text...]"
	args, err := p.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	if opts.Server.AuthPasswd == "auto" {
		if opts.Server.AuthPasswd, err = webapi.GenerateRandomPassword(20); err != nil {
			log.Printf("[ERROR] can't generate password: %v", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "generated basic auth password for user langid: %q\n", opts.Server.AuthPasswd)
	}

	setupLog(opts.Dbg, opts.Server.AuthPasswd)
	log.Printf("[DEBUG] langid %s, options: %+v", revision, opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts, args, os.Stdin, os.Stdout); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// execute runs the web server if enabled, otherwise detects languages of args,
// or of stdin lines if no args given, and prints results to out
func execute(ctx context.Context, opts options, args []string, in io.Reader, out io.Writer) error {
	rec, closeRec, err := makeRecorder(ctx, opts)
	if err != nil {
		return err
	}
	defer closeRec()

	if opts.Stats {
		return printStats(ctx, rec, out)
	}

	detector, err := reload.New(makeBuilder(opts).Build)
	if err != nil {
		return err
	}
	log.Printf("[INFO] detector ready, %d languages, %d models loaded",
		len(detector.Languages()), detector.LoadedModels())

	if opts.Server.Enabled {
		return runServer(ctx, opts, detector, rec)
	}

	texts := args
	if len(texts) == 0 {
		if texts, err = readLines(in); err != nil {
			return err
		}
	}
	return detectTexts(ctx, texts, detector, rec, opts.Confidence, out)
}

func runServer(ctx context.Context, opts options, detector *reload.Detector, rec webapi.Recorder) error {
	srv := webapi.NewServer(webapi.Config{
		Version:    revision,
		ListenAddr: opts.Server.ListenAddr,
		Detector:   detector,
		Recorder:   rec,
		AuthPasswd: opts.Server.AuthPasswd,
		CacheTTL:   opts.Server.CacheTTL,
		CacheSize:  opts.Server.CacheSize,
		RateLimit:  opts.Server.RateLimit,
		Dbg:        opts.Dbg,
	})

	if opts.Models.Watch && opts.Models.Dir != "" {
		detector.Delay = opts.Models.WatchDelay
		detector.OnReload = srv.ResetCache
		go func() {
			if err := detector.Watch(ctx, opts.Models.Dir); err != nil {
				log.Printf("[WARN] models watcher failed, %v", err)
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("web server failed, %w", err)
	}
	return nil
}

// makeBuilder makes detector builder with candidates and models source from options
func makeBuilder(opts options) *langid.DetectorBuilder {
	var res *langid.DetectorBuilder
	switch {
	case len(opts.Languages) > 0:
		res = langid.FromNames(opts.Languages...)
	case opts.Spoken:
		res = langid.FromAllSpokenLanguages()
	default:
		res = langid.FromAllLanguages()
	}
	res = res.WithMinimumRelativeDistance(opts.MinDistance)
	if opts.Preload {
		res = res.WithPreloadedLanguageModels()
	}
	if opts.Models.Dir != "" {
		log.Printf("[DEBUG] models directory: %s", opts.Models.Dir)
		res = res.WithModelSource(langid.DirSource(opts.Models.Dir))
	}
	return res
}

// detectTexts detects the best language of each text and prints it, with distribution if withDist set.
// All detections are recorded in one batch if recorder supports it.
func detectTexts(ctx context.Context, texts []string, det *reload.Detector, rec webapi.Recorder,
	withDist bool, out io.Writer) error {
	langColor := color.New(color.FgGreen).SprintFunc()
	unknownColor := color.New(color.FgRed).SprintFunc()

	records := make([]langcheck.Record, 0, len(texts))
	for _, text := range texts {
		dist := det.DetectDistribution(text)
		lang, ok := langid.BestLanguage(dist, det.MinimumRelativeDistance())
		records = append(records, langcheck.NewRecord(text, "cli", lang, ok, dist))

		resp := langcheck.NewResponse(lang, ok)
		label := unknownColor("unknown")
		if ok {
			label = langColor(fmt.Sprintf("%s (%s)", resp.Language, resp.IsoCode))
		}
		line := fmt.Sprintf("%s\t%s", label, langcheck.Shorten(text, 64))
		if withDist {
			line += "\t" + langcheck.ConfidenceToString(dist)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("can't write result, %w", err)
		}
	}

	if bw, ok := rec.(batchWriter); ok {
		if err := bw.WriteBatch(ctx, records); err != nil {
			return fmt.Errorf("can't save detections, %w", err)
		}
		return nil
	}
	for _, r := range records {
		if err := rec.Write(ctx, r); err != nil {
			return fmt.Errorf("can't save detection, %w", err)
		}
	}
	return nil
}

func printStats(ctx context.Context, rec webapi.Recorder, out io.Writer) error {
	st, ok := rec.(statsReader)
	if !ok {
		return errors.New("stats require detections storage, set --storage.file")
	}
	stats, err := st.Stats(ctx)
	if err != nil {
		return fmt.Errorf("can't get stats, %w", err)
	}
	for _, s := range stats {
		lang := s.Language
		if lang == "" {
			lang = "unknown"
		}
		if _, err := fmt.Fprintf(out, "%s\t%d\n", lang, s.Count); err != nil {
			return fmt.Errorf("can't write stats, %w", err)
		}
	}
	return nil
}

func readLines(in io.Reader) ([]string, error) {
	res := []string{}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			res = append(res, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("can't read input, %w", err)
	}
	return res, nil
}

type batchWriter interface {
	WriteBatch(ctx context.Context, recs []langcheck.Record) error
}

type statsReader interface {
	Stats(ctx context.Context) ([]storage.LanguageStat, error)
}

// recorder keeps detections in the primary store and duplicates them as json lines to the detection log
type recorder struct {
	webapi.Recorder
	logWr io.Writer
}

// Write saves the record and logs it, failed log write is not an error
func (r *recorder) Write(ctx context.Context, rec langcheck.Record) error {
	r.log(rec)
	return r.Recorder.Write(ctx, rec)
}

// WriteBatch saves all records, in one transaction if the primary store supports batches
func (r *recorder) WriteBatch(ctx context.Context, recs []langcheck.Record) error {
	for _, rec := range recs {
		r.log(rec)
	}
	if bw, ok := r.Recorder.(batchWriter); ok {
		return bw.WriteBatch(ctx, recs)
	}
	for _, rec := range recs {
		if err := r.Recorder.Write(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns per-language stats if the primary store provides them
func (r *recorder) Stats(ctx context.Context) ([]storage.LanguageStat, error) {
	st, ok := r.Recorder.(statsReader)
	if !ok {
		return nil, errors.New("stats are not supported by in-memory history")
	}
	return st.Stats(ctx)
}

func (r *recorder) log(rec langcheck.Record) {
	rec.Text = strings.TrimSpace(strings.ReplaceAll(rec.Text, "\n", " "))
	line, err := json.Marshal(&rec)
	if err != nil {
		log.Printf("[WARN] can't marshal json, %v", err)
		return
	}
	if _, err := r.logWr.Write(append(line, '\n')); err != nil {
		log.Printf("[WARN] can't write to log, %v", err)
	}
}

// makeRecorder makes detections recorder, sqlite storage if set, in-memory history otherwise.
// Returned close function closes the storage and the detection log.
func makeRecorder(ctx context.Context, opts options) (*recorder, func(), error) {
	logWr, err := makeDetectionLogWriter(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("can't make detection log writer, %w", err)
	}

	if opts.Storage.File == "" {
		res := &recorder{Recorder: langcheck.NewLastRecords(opts.Storage.MaxSize), logWr: logWr}
		return res, func() { _ = logWr.Close() }, nil
	}

	db, err := engine.New(ctx, opts.Storage.File)
	if err != nil {
		_ = logWr.Close()
		return nil, nil, fmt.Errorf("can't open storage, %w", err)
	}
	store, err := storage.NewDetections(ctx, db, opts.Storage.MaxSize)
	if err != nil {
		_ = db.Close()
		_ = logWr.Close()
		return nil, nil, fmt.Errorf("can't make detections storage, %w", err)
	}
	log.Printf("[INFO] detections storage: %s, max size %d", opts.Storage.File, opts.Storage.MaxSize)
	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARN] can't close storage, %v", err)
		}
		_ = logWr.Close()
	}
	return &recorder{Recorder: store, logWr: logWr}, closeFn, nil
}

// makeDetectionLogWriter creates detection log writer to keep json lines of all detections
// it parses options and makes lumberjack logger with rotation
func makeDetectionLogWriter(opts options) (io.WriteCloser, error) {
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

	maxSize, err := sizeParse(opts.Logger.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", err)
	}
	maxSize /= 1048576

	log.Printf("[INFO] detection log enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), //nolint:gosec // in MB, small value
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
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

	nonEmpty := []string{}
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
