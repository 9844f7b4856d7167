package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/fewlinesco/rampsdk"
	"github.com/fewlinesco/rampsdk/client"
	"github.com/fewlinesco/rampsdk/config"
	"github.com/fewlinesco/rampsdk/contract"
	"github.com/fewlinesco/rampsdk/endpoints"
	"github.com/fewlinesco/rampsdk/internal/typegen"
	"github.com/fewlinesco/rampsdk/schema"
)

func lookup(reg *endpoints.Registry, id string) (*schema.Endpoint, error) {
	ep, ok := reg.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, client.ErrUnknownEndpoint)
	}
	return ep, nil
}

func listEndpoints(w io.Writer, reg *endpoints.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, id := range reg.IDs() {
		ep, _ := reg.Lookup(id)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, ep.Method, ep.URL)
	}
	return tw.Flush()
}

func lint(w io.Writer, files []string) error {
	reg, err := endpoints.Load(files...)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d endpoints OK\n", reg.Len())
	return nil
}

func check(w io.Writer, reg *endpoints.Registry, id, bodyFile, queryFile string) error {
	ep, err := lookup(reg, id)
	if err != nil {
		return err
	}

	var body, query map[string]interface{}
	if bodyFile != "" {
		if err := readJSON(bodyFile, &body); err != nil {
			return err
		}
	}
	if queryFile != "" {
		if err := readJSON(queryFile, &query); err != nil {
			return err
		}
	}

	if err := contract.ValidateRequest(ep.Method, ep.URL, body, query, ep); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: request OK\n", id)
	return nil
}

func formatResponse(w io.Writer, reg *endpoints.Registry, id, responseFile string) error {
	ep, err := lookup(reg, id)
	if err != nil {
		return err
	}

	var payload interface{}
	if err := readJSON(responseFile, &payload); err != nil {
		return err
	}
	out, err := contract.FormatResponse(payload, ep)
	if err != nil {
		return err
	}
	return writeJSON(w, out)
}

func genTypes(reg *endpoints.Registry, id string) error {
	ep, err := lookup(reg, id)
	if err != nil {
		return err
	}

	src, err := typegen.Generate(ep, typegen.Options{
		Package:   *packageName,
		RootType:  *rootTypeName,
		Prefix:    *typeNamesPrefix,
		Generator: "rampctl gen-types",
	})
	if err != nil {
		return err
	}

	if *outToStdout {
		_, err := os.Stdout.Write(src)
		return err
	}
	outputFileName := *outputFile
	if outputFileName == "" {
		outputFileName = fmt.Sprintf("%s_types.go", strings.ToLower(id))
	}
	if err := os.WriteFile(outputFileName, src, 0644); err != nil {
		return fmt.Errorf("writing to %s: %w", outputFileName, err)
	}
	return nil
}

func quote(ctx context.Context, w io.Writer, reg *endpoints.Registry, cfg config.Config, logger *zap.Logger) error {
	api, err := rampsdk.New(cfg, client.WithLogger(logger), client.WithRegistry(reg))
	if err != nil {
		return err
	}

	q, err := api.Public.GetQuote(ctx, rampsdk.QuoteRequest{
		FiatCurrency:     *quoteFiat,
		CryptoCurrency:   *quoteCrypto,
		PaymentMethod:    *quoteMethod,
		IsBuyOrSell:      *quoteSide,
		FiatAmount:       *quoteAmount,
		Network:          *quoteNetwork,
		QuoteCountryCode: *quoteCountry,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, q)
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
