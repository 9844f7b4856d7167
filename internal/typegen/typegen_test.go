package typegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fewlinesco/rampsdk/endpoints"
	"github.com/fewlinesco/rampsdk/schema"
)

// squash collapses gofmt alignment so assertions don't depend on padding.
func squash(src []byte) string {
	return strings.Join(strings.Fields(string(src)), " ")
}

func TestIdentifier(t *testing.T) {
	Convey("Wire names become Go identifiers", t, func() {
		So(Identifier("get_user", true), ShouldEqual, "GetUser")
		So(Identifier("fiatAmountInUsd", true), ShouldEqual, "FiatAmountInUsd")
		So(Identifier("_id", true), ShouldEqual, "ID")
		So(Identifier("kyc-form_id", true), ShouldEqual, "KYCFormID")
		So(Identifier("kycUrl", true), ShouldEqual, "KYCURL")
		So(Identifier("quoteId", false), ShouldEqual, "quoteID")
		So(Identifier("network.name", true), ShouldEqual, "NetworkName")
	})

	Convey("Leading digits get a prefix", t, func() {
		So(Identifier("1", true), ShouldEqual, "N1")
		So(Identifier("365", false), ShouldEqual, "n365")
	})
}

func TestGenerate(t *testing.T) {
	city := func() *schema.Fields {
		return schema.NewFields().Set("city", schema.Output("city", schema.String, true))
	}

	Convey("Given an object endpoint", t, func() {
		ep := &schema.Endpoint{
			ID:           "get_user",
			ResponseRoot: "data",
			Output: schema.NewFields().
				Set("id", schema.Output("id", schema.String, true)).
				Set("kycUrl", schema.Output("kycUrl", schema.String, false)).
				Set("status", schema.Output("status", schema.String, false).WithDefault("NEW")).
				Set("address", schema.Output("address", schema.Object, false).WithNested(city())).
				Set("orders", schema.Output("orders", schema.Array, false).WithNested(
					schema.NewFields().Set("address", schema.Output("shipping", schema.Object, true).WithNested(city())),
				)).
				Set("meta", schema.Output("meta", schema.Object, false)).
				Set("1", schema.Output("limits.1", schema.Number, true)),
		}

		src, err := Generate(ep, Options{Package: "types", Generator: "rampctl gen-types"})
		So(err, ShouldBeNil)
		out := squash(src)

		Convey("The header and package are written", func() {
			So(string(src), ShouldStartWith, "// Code generated by rampctl gen-types; DO NOT EDIT.\n\npackage types\n")
		})

		Convey("The root struct keeps declaration order", func() {
			So(out, ShouldContainSubstring, "// GetUser is the formatted response of get_user. type GetUser struct { "+
				"ID string `json:\"id\"` "+
				"KYCURL *string `json:\"kycUrl,omitempty\"` "+
				"Status string `json:\"status,omitempty\"` "+
				"Address *GetUserAddress `json:\"address,omitempty\"` "+
				"Orders []Order `json:\"orders,omitempty\"` "+
				"Meta map[string]interface{} `json:\"meta,omitempty\"` "+
				"N1 float64 `json:\"1\"` }")
		})

		Convey("Clashing nested types are prefixed by their parent", func() {
			So(out, ShouldContainSubstring, "type GetUserAddress struct { City string `json:\"city\"` }")
			So(out, ShouldContainSubstring, "type Order struct { Address OrderAddress `json:\"address\"` }")
			So(out, ShouldContainSubstring, "type OrderAddress struct { City string `json:\"city\"` }")
			So(out, ShouldNotContainSubstring, "type Address struct")
		})

		Convey("Type prefixes skip the root", func() {
			src, err := Generate(ep, Options{Prefix: "Ramp", RootType: "User"})
			So(err, ShouldBeNil)
			out := squash(src)
			So(out, ShouldContainSubstring, "package main")
			So(out, ShouldContainSubstring, "type User struct")
			So(out, ShouldContainSubstring, "type RampOrder struct")
			So(out, ShouldContainSubstring, "Address *RampGetUserAddress")
		})
	})

	Convey("Array roots declare an element type", t, func() {
		ep := &schema.Endpoint{
			ID:           "get_crypto_currencies",
			ResponseType: "array",
			ResponseRoot: "response",
			Output: schema.NewFields().
				Set("symbol", schema.Output("symbol", schema.String, true)).
				Set("isAllowed", schema.Output("isAllowed", schema.Boolean, false)),
		}
		src, err := Generate(ep, Options{})
		So(err, ShouldBeNil)
		out := squash(src)
		So(out, ShouldContainSubstring, "type GetCryptoCurrencies []GetCryptoCurrency")
		So(out, ShouldContainSubstring, "type GetCryptoCurrency struct { Symbol string `json:\"symbol\"` IsAllowed *bool `json:\"isAllowed,omitempty\"` }")
	})

	Convey("Pass-through endpoints have no structure", t, func() {
		src, err := Generate(&schema.Endpoint{ID: "get_fiat_currencies", ResponseType: "array"}, Options{})
		So(err, ShouldBeNil)
		So(squash(src), ShouldContainSubstring, "type GetFiatCurrencies []interface{}")

		src, err = Generate(&schema.Endpoint{ID: "submit_purpose_of_usage"}, Options{})
		So(err, ShouldBeNil)
		So(squash(src), ShouldContainSubstring, "type SubmitPurposeOfUsage interface{}")
	})

	Convey("A nameless endpoint is rejected", t, func() {
		_, err := Generate(&schema.Endpoint{}, Options{})
		So(err, ShouldNotBeNil)
	})

	Convey("Every registered endpoint produces valid Go", t, func() {
		reg := endpoints.Default()
		for _, id := range reg.IDs() {
			ep, _ := reg.Lookup(id)
			src, err := Generate(ep, Options{Package: "ramptypes"})
			So(err, ShouldBeNil)

			_, err = parser.ParseFile(token.NewFileSet(), id+".go", src, parser.AllErrors)
			So(err, ShouldBeNil)
		}
	})
}
