// Command rampctl inspects the endpoint tables and talks to the ramp API.
package main

import (
	"context"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/fewlinesco/rampsdk/config"
	"github.com/fewlinesco/rampsdk/endpoints"
	"github.com/fewlinesco/rampsdk/internal/logging"
)

var (
	app = kingpin.New("rampctl", "Inspect ramp API endpoint schemas and call the API.")

	configPath = app.Flag("config", "config file; default is rampsdk.yaml or configs/rampsdk.yaml").Short('c').String()
	logLevel   = app.Flag("log-level", "log level; overrides the config file").String()
	jsonLogs   = app.Flag("json-logs", "log as JSON").Bool()
	tableFiles = app.Flag("endpoints", "endpoint table files to use instead of the built-in ones").Short('e').ExistingFiles()

	endpointsCmd = app.Command("endpoints", "List endpoint ids.")

	lintCmd   = app.Command("lint", "Load endpoint table files and check every schema.")
	lintFiles = lintCmd.Arg("files", "YAML endpoint tables").Required().ExistingFiles()

	checkCmd      = app.Command("check", "Validate a request against an endpoint schema.")
	checkEndpoint = checkCmd.Arg("endpoint", "endpoint id").Required().String()
	checkBody     = checkCmd.Flag("body", "JSON file holding the request body").ExistingFile()
	checkQuery    = checkCmd.Flag("query", "JSON file holding the query parameters").ExistingFile()

	formatCmd      = app.Command("format", "Format an upstream response the way the client does.")
	formatEndpoint = formatCmd.Arg("endpoint", "endpoint id").Required().String()
	formatInput    = formatCmd.Arg("response", "JSON file holding the upstream response").Required().ExistingFile()

	genCmd          = app.Command("gen-types", "Generate Go types for an endpoint's formatted response.")
	genEndpoint     = genCmd.Arg("endpoint", "endpoint id").Required().String()
	outToStdout     = genCmd.Flag("console", "output to console instead of file").Default("false").Bool()
	outputFile      = genCmd.Flag("out-file", "filename for output; default is <endpoint>_types.go").Short('o').String()
	packageName     = genCmd.Flag("package", `package name for generated file; default is "main"`).Default("main").String()
	rootTypeName    = genCmd.Flag("root-type", "name of root type; default is generated from the endpoint id").String()
	typeNamesPrefix = genCmd.Flag("prefix", "prefix for non-root types").String()

	quoteCmd     = app.Command("quote", "Fetch a live quote.")
	quoteFiat    = quoteCmd.Flag("fiat", "fiat currency").Default("EUR").String()
	quoteCrypto  = quoteCmd.Flag("crypto", "crypto currency").Default("USDC").String()
	quoteAmount  = quoteCmd.Flag("amount", "fiat amount").Default("30").Float64()
	quoteNetwork = quoteCmd.Flag("network", "crypto network").Default("arbitrum").String()
	quoteMethod  = quoteCmd.Flag("payment-method", "payment method").Default("sepa_bank_transfer").String()
	quoteSide    = quoteCmd.Flag("side", "BUY or SELL").Default("BUY").Enum("BUY", "SELL")
	quoteCountry = quoteCmd.Flag("country", "quote country code").String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadFromPath(*configPath)
	app.FatalIfError(err, "loading config")
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *jsonLogs {
		cfg.JSONLogs = true
	}

	logger, err := logging.New(cfg.LogLevel, cfg.JSONLogs)
	app.FatalIfError(err, "")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case endpointsCmd.FullCommand():
		err = listEndpoints(os.Stdout, registry())
	case lintCmd.FullCommand():
		err = lint(os.Stdout, *lintFiles)
	case checkCmd.FullCommand():
		err = check(os.Stdout, registry(), *checkEndpoint, *checkBody, *checkQuery)
	case formatCmd.FullCommand():
		err = formatResponse(os.Stdout, registry(), *formatEndpoint, *formatInput)
	case genCmd.FullCommand():
		err = genTypes(registry(), *genEndpoint)
	case quoteCmd.FullCommand():
		err = quote(ctx, os.Stdout, registry(), cfg, logger)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func registry() *endpoints.Registry {
	if len(*tableFiles) == 0 {
		return endpoints.Default()
	}
	reg, err := endpoints.Load(*tableFiles...)
	app.FatalIfError(err, "loading endpoint tables")
	return reg
}
