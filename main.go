package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/techttk77-droid/baixadoc-alvara/internal/logging"
	"github.com/techttk77-droid/baixadoc-alvara/layout"
	"github.com/techttk77-droid/baixadoc-alvara/money"
	"github.com/techttk77-droid/baixadoc-alvara/notice"
	"github.com/techttk77-droid/baixadoc-alvara/record"
	"github.com/techttk77-droid/baixadoc-alvara/register"
	canvasrenderer "github.com/techttk77-droid/baixadoc-alvara/renderer/canvas"
	"github.com/techttk77-droid/baixadoc-alvara/server"
)

// logOutput receives log records; tests replace it.
var logOutput io.Writer = os.Stderr

// Globals are shared by every command.
type Globals struct {
	Config      kong.ConfigFlag `help:"Arquivo de configuração JSON." type:"path"`
	Assets      string          `help:"Diretório das imagens do modelo." default:"imagens" env:"ALVARA_ASSETS" type:"path"`
	Template    string          `help:"Modelo do alvará (padrão: modelo embutido)." env:"ALVARA_TEMPLATE" type:"path"`
	HistoryDB   string          `name:"history-db" help:"Banco SQLite do histórico; vazio desativa." env:"ALVARA_HISTORY_DB"`
	FontRegular string          `name:"font-regular" help:"Fonte TrueType regular." type:"path"`
	FontBold    string          `name:"font-bold" help:"Fonte TrueType negrito." type:"path"`
	LogLevel    string          `name:"log-level" help:"Nível de log (debug, info, warn, error)." default:"info" env:"ALVARA_LOG_LEVEL"`
	LogFormat   string          `name:"log-format" help:"Formato de log (json, text)." default:"text" env:"ALVARA_LOG_FORMAT"`
}

// CLI is the command tree.
type CLI struct {
	Globals

	Generate GenerateCmd `cmd:"" help:"Gera o PDF de um alvará."`
	Serve    ServeCmd    `cmd:"" help:"Serve o formulário e a geração por HTTP."`
	Extenso  ExtensoCmd  `cmd:"" help:"Formata um valor e o escreve por extenso."`
	History  HistoryCmd  `cmd:"" help:"Consulta o histórico de alvarás emitidos."`
}

func (g *Globals) logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(level, format, logOutput), nil
}

func (g *Globals) openRegister(ctx context.Context) (*register.Store, error) {
	if g.HistoryDB == "" {
		return nil, nil
	}
	if dir := filepath.Dir(g.HistoryDB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("criar diretório do histórico: %w", err)
		}
	}
	return register.Open(ctx, g.HistoryDB)
}

// generator assembles a notice generator; the returned closer releases the
// register.
func (g *Globals) generator(ctx context.Context, log *slog.Logger) (*notice.Generator, func(), error) {
	tpl, err := notice.LoadTemplate(g.Template)
	if err != nil {
		return nil, nil, err
	}
	store, err := g.openRegister(ctx)
	if err != nil {
		return nil, nil, err
	}
	gen := &notice.Generator{
		Template: tpl,
		Assets:   os.DirFS(g.Assets),
		Fonts: map[layout.Weight]canvasrenderer.Resource{
			layout.Regular: {Path: g.FontRegular},
			layout.Bold:    {Path: g.FontBold},
		},
		Logger: log,
	}
	closer := func() {}
	if store != nil {
		gen.Register = store
		closer = func() { store.Close() }
	}
	return gen, closer, nil
}

// GenerateCmd writes one notice to disk.
type GenerateCmd struct {
	Creditor      string `help:"Credor." required:""`
	TaxID         string `name:"tax-id" help:"CPF ou CNPJ." required:""`
	Attorney      string `help:"Advogado(a)." required:""`
	CaseNumber    string `name:"case-number" help:"Número do processo." required:""`
	OpposingParty string `name:"opposing-party" help:"Parte contrária." required:""`
	Amount        string `help:"Valor a receber (dígitos ou R$ 0,00)." required:""`
	Description   string `help:"Descrição; padrão: o valor por extenso."`
	Out           string `short:"o" help:"Arquivo ou diretório de saída." type:"path"`
	Debug         string `help:"Grava as instruções de layout em JSON." type:"path"`
}

func (c *GenerateCmd) record() record.CaseRecord {
	values := map[record.Field]string{
		record.Creditor:      c.Creditor,
		record.TaxID:         c.TaxID,
		record.Attorney:      c.Attorney,
		record.CaseNumber:    c.CaseNumber,
		record.OpposingParty: c.OpposingParty,
		record.Amount:        c.Amount,
		record.Description:   c.Description,
	}
	return record.FromValues(func(f record.Field) string { return values[f] })
}

func (c *GenerateCmd) Run(g *Globals) error {
	log, err := g.logger()
	if err != nil {
		return err
	}
	ctx := context.Background()
	gen, closeRegister, err := g.generator(ctx, log)
	if err != nil {
		return err
	}
	defer closeRegister()

	rec := c.record()
	doc, err := gen.Generate(ctx, rec)
	var ve *record.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%s (%w)", ve.Message(), err)
	}
	if err != nil {
		return err
	}

	path := outputPath(c.Out, doc.Filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("criar diretório de saída: %w", err)
	}
	if err := os.WriteFile(path, doc.PDF, 0o644); err != nil {
		return fmt.Errorf("gravar PDF: %w", err)
	}
	if c.Debug != "" {
		if err := layout.WriteDebugJSON(doc.Layout, c.Debug); err != nil {
			return fmt.Errorf("gravar JSON de depuração: %w", err)
		}
	}
	fmt.Printf("PDF gerado com sucesso: %s\n", path)
	return nil
}

// outputPath puts name inside out when out is empty or a directory.
func outputPath(out, name string) string {
	if out == "" {
		return name
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}

// ServeCmd runs the HTTP server until interrupted.
type ServeCmd struct {
	Listen string `help:"Endereço de escuta." default:":8080" env:"ALVARA_LISTEN"`
}

func (c *ServeCmd) Run(g *Globals) error {
	log, err := g.logger()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, closeRegister, err := g.generator(ctx, log)
	if err != nil {
		return err
	}
	defer closeRegister()

	var history server.History
	if store, ok := gen.Register.(*register.Store); ok {
		history = store
	}
	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           server.New(gen, history, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("servidor iniciado", "addr", c.Listen, "assets", g.Assets, "historico", g.HistoryDB)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ExtensoCmd prints an amount formatted and in words.
type ExtensoCmd struct {
	Amount string `arg:"" help:"Valor (dígitos ou R$ 0,00)."`
}

func (c *ExtensoCmd) Run() error {
	a, ok := money.Parse(c.Amount)
	if !ok {
		return fmt.Errorf("valor sem dígitos: %q", c.Amount)
	}
	words, err := money.Words(a)
	if err != nil {
		return err
	}
	fmt.Println(money.Format(a))
	fmt.Println(words)
	return nil
}

// HistoryCmd groups register queries.
type HistoryCmd struct {
	List HistoryListCmd `cmd:"" default:"withargs" help:"Lista os alvarás emitidos."`
}

// HistoryListCmd prints register entries, newest first.
type HistoryListCmd struct {
	Case  string `help:"Filtra por número do processo."`
	Limit int    `help:"Número máximo de registros." default:"20"`
	JSON  bool   `name:"json" help:"Saída em JSON."`
}

func (c *HistoryListCmd) Run(g *Globals) error {
	if g.HistoryDB == "" {
		return fmt.Errorf("histórico desativado: informe --history-db ou ALVARA_HISTORY_DB")
	}
	ctx := context.Background()
	store, err := register.Open(ctx, g.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()
	entries, err := store.List(ctx, c.Case, c.Limit)
	if err != nil {
		return err
	}
	return printEntries(os.Stdout, entries, c.JSON)
}

func printEntries(w io.Writer, entries []register.Entry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []register.Entry{}
		}
		return enc.Encode(entries)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMITIDO\tPROCESSO\tCREDOR\tVALOR\tARQUIVO")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format("02/01/2006 15:04"), e.CaseNumber, e.Creditor, e.Amount, e.Filename)
	}
	return tw.Flush()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("alvara"),
		kong.Description("Gerador de alvarás de liberação de pagamento."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "./alvara.json"),
		kong.Bind(&cli.Globals),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
