package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kechako/pinyinime"
	"github.com/kechako/pinyinime/config"
	"github.com/kechako/pinyinime/convert"
	"github.com/kechako/pinyinime/internal/metrics"
	"github.com/kechako/pinyinime/key"
)

var (
	typeSchema     string
	typeSchemaFile string
	typeDicts      map[string]string
	metricsAddr    string

	typeCmd = &cobra.Command{
		Use:   "type [keys...]",
		Short: "Feed keys to a composition session and print what it commits",
		Long: `Every word is typed one character at a time, with nothing in between. A word in angle brackets is a
named key: <space>, <return>, <escape>, <backspace>, <up>, <down>,
<page_up>, <page_down>, or a chord such as <ctrl+c>.

Without arguments each line of standard input is read as such a key
sequence, and the session state is printed after every line.`,
		Example: "pinyinime type zhong '<down>' '<space>'",
		RunE:    runType,
	}
)

func init() {
	typeCmd.Flags().StringVarP(&typeSchema, "schema", "s", "", "The schema id to load from the resource directory, overriding the configuration file.")
	typeCmd.Flags().StringVarP(&typeSchemaFile, "schema-file", "f", "", "A schema file to load instead of a schema id.")
	typeCmd.Flags().StringToStringVarP(&typeDicts, "dict", "d", nil, "Dictionary files by name (name=path).")
	typeCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while typing.")
}

func runType(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		go serveMetrics(logger, reg, metricsAddr)
	}

	engine, err := newEngine(cfg, logger, m)
	if err != nil {
		return err
	}

	session := engine.NewSession()
	out := cmd.OutOrStdout()
	var text strings.Builder

	if len(args) > 0 {
		if err := feed(session, args, &text); err != nil {
			return err
		}
		printState(out, session)
		fmt.Fprintln(out, text.String())
		return nil
	}

	s := bufio.NewScanner(cmd.InOrStdin())
	for s.Scan() {
		if err := feed(session, strings.Fields(s.Text()), &text); err != nil {
			logger.WithError(err).Warn("line skipped")
			continue
		}
		printState(out, session)
	}
	if err := s.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out, text.String())
	return nil
}

func newEngine(cfg config.Config, logger log.FieldLogger, m *metrics.Metrics) (*pinyinime.Engine, error) {
	variant, err := convert.ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}
	converter, err := newConverter(cfg)
	if err != nil {
		return nil, err
	}

	opts := []pinyinime.Option{
		pinyinime.WithLogger(logger),
		pinyinime.WithMetrics(m),
		pinyinime.WithPageSize(cfg.PageSize),
		pinyinime.WithConverter(converter, variant),
		pinyinime.WithResourceDir(cfg.ResourceDir),
	}
	for name, path := range cfg.Dictionaries {
		opts = append(opts, pinyinime.WithDictionaryFile(name, path))
	}
	for name, path := range typeDicts {
		opts = append(opts, pinyinime.WithDictionaryFile(name, path))
	}

	engine := pinyinime.New(opts...)
	if typeSchemaFile != "" {
		err = engine.LoadSchemeFile(typeSchemaFile)
	} else {
		id := cfg.Schema
		if typeSchema != "" {
			id = typeSchema
		}
		err = engine.SelectScheme(id)
	}
	if err != nil {
		return nil, err
	}

	logger.WithField("schema", engine.Schema().ID()).Info("scheme loaded")
	return engine, nil
}

// newConverter prefers an explicit table, then an OpenCC installation under
// the resource directory, then the builtin table.
func newConverter(cfg config.Config) (convert.Converter, error) {
	if cfg.ConvertTable != "" {
		table := convert.NewTable()
		if err := table.ReadFile(cfg.ConvertTable); err != nil {
			return nil, err
		}
		return table, nil
	}
	if cfg.ResourceDir != "" {
		dir := config.Paths{Root: cfg.ResourceDir}.OpenCCDir()
		if _, err := os.Stat(filepath.Join(dir, "config")); err == nil {
			return convert.NewOpenCC(dir)
		}
	}
	return convert.Builtin(), nil
}

// feed types words into the session. Keys the session does not take are
// handled the way a host would: printable ones are inserted as they are.
func feed(session *pinyinime.Session, words []string, text *strings.Builder) error {
	press := func(ev key.Event) {
		accepted := session.ProcessKey(ev)
		text.WriteString(session.Flush())
		if !accepted && ev.Printable() && !ev.Chord() {
			text.WriteRune(ev.Char)
		}
	}

	for _, w := range words {
		if len(w) > 2 && strings.HasPrefix(w, "<") && strings.HasSuffix(w, ">") {
			ev, ok := key.Parse(w[1 : len(w)-1])
			if !ok {
				return fmt.Errorf("unknown key %s", w)
			}
			press(ev)
			continue
		}
		for _, r := range w {
			press(key.Rune(r))
		}
	}
	return nil
}

func printState(w io.Writer, session *pinyinime.Session) {
	if !session.Composing() {
		fmt.Fprintf(w, "[%s]\n", session.State())
		return
	}

	page, index := session.Page()
	size := session.PageSize()
	fmt.Fprintf(w, "[%s] %s (%d/%d)\n", session.State(), session.Raw(), index+1, session.Candidates().PageCount(size))
	for i, c := range page {
		mark := " "
		if index*size+i == session.Selected() {
			mark = "*"
		}
		fmt.Fprintf(w, "%s%d. %s\n", mark, i+1, c)
	}
}

func serveMetrics(logger log.FieldLogger, reg *prometheus.Registry, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	logger.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("metrics server stopped")
	}
}
