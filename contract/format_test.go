package contract

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"

	"github.com/fewlinesco/rampsdk/schema"
)

const fixtureEndpoint = `
id: fixture
url: /fixture
method: GET
response_root_field_name: response
output_fields:
  simpleString: {source: simpleString, type: string, isRequired: true}
  optionalString: {source: optionalString, type: string, isRequired: false, defaultValue: Default Value}
  nestedObject:
    source: nested
    type: object
    isRequired: true
    nestedFields:
      deepString: {source: deepString, type: string, isRequired: true}
      deepStringNested: {source: deepStringNested.anotherString, type: string, isRequired: false, defaultValue: "undefined"}
      deepOptional: {source: deepOptional, type: string, isRequired: false, defaultValue: Default Nested Value}
  nestedArray:
    source: items
    type: array
    isRequired: true
    nestedFields:
      id: {source: id, type: string, isRequired: true}
      value: {source: value, type: number, isRequired: false, defaultValue: 0}
  nestedObjectOptional:
    source: nestedOptional
    type: object
    isRequired: false
    defaultValue: null
    nestedFields:
      deepString: {source: deepString, type: string, isRequired: true}
      deepOptional: {source: deepOptional, type: string, isRequired: false}
  nestedArrayOptional:
    source: itemsOptional
    type: array
    isRequired: false
    defaultValue: null
    nestedFields:
      id: {source: id, type: string, isRequired: true}
      value: {source: value, type: number, isRequired: false}
`

func loadEndpoint(doc string) *schema.Endpoint {
	var ep schema.Endpoint
	if err := yaml.Unmarshal([]byte(doc), &ep); err != nil {
		panic(err)
	}
	if err := CheckEndpoint(&ep); err != nil {
		panic(err)
	}
	return &ep
}

func decodeJSON(doc string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		panic(err)
	}
	return v
}

func TestFormatResponse(t *testing.T) {
	Convey("Given the nested fixture schema", t, func() {
		ep := loadEndpoint(fixtureEndpoint)

		Convey("A missing root-level required field fails", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {}}`), ep)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldStartWith, "Missing required field: simpleString")
		})

		Convey("Optional fields take their defaults", func() {
			out, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": "Test String",
				"nested": {"deepString": "Nested String"},
				"items": [{"id": "123"}, {"id": "456"}]
			}}`), ep)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, decodeJSON(`{
				"simpleString": "Test String",
				"optionalString": "Default Value",
				"nestedObjectOptional": null,
				"nestedObject": {
					"deepString": "Nested String",
					"deepStringNested": "undefined",
					"deepOptional": "Default Nested Value"
				},
				"nestedArrayOptional": null,
				"nestedArray": [{"id": "123", "value": 0}, {"id": "456", "value": 0}]
			}`))
		})

		Convey("A missing required nested object fails", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {"simpleString": "Test String"}}`), ep)
			So(err.Error(), ShouldStartWith, "Missing required field: nestedObject")
		})

		Convey("A missing required array fails naming the output key", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": "x",
				"nested": {"deepString": "y"}
			}}`), ep)
			So(err.Error(), ShouldStartWith, "Missing required field: nestedArray")

			var v *ViolationError
			So(errors.As(err, &v), ShouldBeTrue)
			So(v.Stage, ShouldEqual, StageResponse)
			So(v.Field, ShouldEqual, "nestedArray")
		})

		Convey("Array elements keep present values and default the rest", func() {
			out, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": "Test String",
				"nested": {"deepString": "Nested String", "deepStringNested": "Default Nested Value"},
				"items": [{"id": "123", "value": 10}, {"id": "456"}]
			}}`), ep)
			So(err, ShouldBeNil)
			result := out.(map[string]interface{})
			So(result["nestedArray"], ShouldResemble, decodeJSON(`[{"id": "123", "value": 10}, {"id": "456", "value": 0}]`))
			So(result["nestedObject"].(map[string]interface{})["deepStringNested"], ShouldEqual, "undefined")
		})

		Convey("A missing required field inside an array element fails with its spec", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": "Test String",
				"nested": {"deepString": "Nested String"},
				"items": [{"id": "123"}],
				"itemsOptional": [{"value": 20}]
			}}`), ep)
			So(err.Error(), ShouldEqual, `Missing required field: id {"source":"id","type":"string","isRequired":true}`)

			var v *ViolationError
			So(errors.As(err, &v), ShouldBeTrue)
			So(v.Field, ShouldEqual, "nestedArrayOptional[0].id")
		})

		Convey("A present optional nested object is checked", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": "Test String",
				"nested": {"deepString": "Nested String"},
				"items": [{"id": "123"}],
				"nestedOptional": {"deepOptional": "Optional Value"}
			}}`), ep)
			So(err.Error(), ShouldStartWith, "Missing required field: deepString")
		})

		Convey("Optional nested fields without defaults come out as nil", func() {
			out, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": "Test String",
				"nested": {"deepString": "Nested String"},
				"items": [{"id": "123"}],
				"itemsOptional": [{"id": "324234"}],
				"nestedOptional": {"deepString": "Nested Required Value"}
			}}`), ep)
			So(err, ShouldBeNil)
			result := out.(map[string]interface{})
			So(result["nestedObjectOptional"], ShouldResemble, map[string]interface{}{
				"deepString":   "Nested Required Value",
				"deepOptional": nil,
			})
			So(result["nestedArrayOptional"], ShouldResemble, []interface{}{
				map[string]interface{}{"id": "324234", "value": nil},
			})
		})

		Convey("Undeclared upstream fields are dropped", func() {
			out, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": "x",
				"internalFlag": true,
				"nested": {"deepString": "y", "secret": "z"},
				"items": []
			}}`), ep)
			So(err, ShouldBeNil)
			result := out.(map[string]interface{})
			So(result, ShouldNotContainKey, "internalFlag")
			So(result["nestedObject"], ShouldNotContainKey, "secret")
			So(result["nestedArray"], ShouldResemble, []interface{}{})
			So(len(result), ShouldEqual, 6)
		})

		Convey("A wrong runtime type fails naming expected and actual", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {
				"simpleString": 12,
				"nested": {"deepString": "y"},
				"items": []
			}}`), ep)
			So(err.Error(), ShouldEqual, "Invalid type for field simpleString: expected string, got number 12")
		})

		Convey("A missing root fails", func() {
			_, err := FormatResponse(decodeJSON(`{"data": {}}`), ep)
			So(err.Error(), ShouldEqual, "Missing expected response root field: response")

			var v *ViolationError
			So(errors.As(err, &v), ShouldBeTrue)
			So(v.Reason, ShouldEqual, ReasonMissingRoot)
		})

		Convey("An array root is formatted element by element", func() {
			out, err := FormatResponse(decodeJSON(`{"response": [
				{"simpleString": "a", "nested": {"deepString": "1"}, "items": []},
				{"simpleString": "b", "nested": {"deepString": "2"}, "items": [{"id": "x"}]}
			]}`), ep)
			So(err, ShouldBeNil)
			items := out.([]interface{})
			So(items, ShouldHaveLength, 2)
			So(items[0].(map[string]interface{})["simpleString"], ShouldEqual, "a")
			So(items[1].(map[string]interface{})["nestedArray"], ShouldResemble, decodeJSON(`[{"id": "x", "value": 0}]`))
		})

		Convey("An invalid element fails the whole array", func() {
			_, err := FormatResponse(decodeJSON(`{"response": [
				{"simpleString": "a", "nested": {"deepString": "1"}, "items": []},
				{"nested": {"deepString": "2"}, "items": []}
			]}`), ep)
			So(err, ShouldNotBeNil)
		})

		Convey("Concurrent callers share the schema safely", func() {
			payload := `{"response": {"simpleString": "x", "nested": {"deepString": "y"}, "items": [{"id": "1"}]}}`
			want, err := FormatResponse(decodeJSON(payload), ep)
			So(err, ShouldBeNil)

			var wg sync.WaitGroup
			results := make([]interface{}, 16)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = FormatResponse(decodeJSON(payload), ep)
				}(i)
			}
			wg.Wait()
			for _, got := range results {
				So(got, ShouldResemble, want)
			}
		})
	})

	Convey("A default short-circuits nested validation", t, func() {
		ep := &schema.Endpoint{
			ID: "defaults", URL: "/d", Method: "GET", ResponseRoot: "response",
			Output: schema.NewFields().Set("profile", schema.Output("profile", schema.Object, false).
				WithDefault(map[string]interface{}{"unexpected": 1}).
				WithNested(schema.NewFields().Set("name", schema.Output("name", schema.String, true)))),
		}
		out, err := FormatResponse(decodeJSON(`{"response": {}}`), ep)
		So(err, ShouldBeNil)
		So(out, ShouldResemble, map[string]interface{}{"profile": map[string]interface{}{"unexpected": 1}})
	})

	Convey("Returned defaults are copies of the schema's", t, func() {
		ep := &schema.Endpoint{
			ID: "defaults", URL: "/d", Method: "GET", ResponseRoot: "response",
			Output: schema.NewFields().
				Set("meta", schema.Output("meta", schema.Object, false).WithDefault(map[string]interface{}{"a": "1"})).
				Set("tags", schema.Output("tags", schema.Array, false).WithDefault([]interface{}{"x"})),
		}
		want := map[string]interface{}{
			"meta": map[string]interface{}{"a": "1"},
			"tags": []interface{}{"x"},
		}

		out, err := FormatResponse(decodeJSON(`{"response": {}}`), ep)
		So(err, ShouldBeNil)
		result := out.(map[string]interface{})
		result["meta"].(map[string]interface{})["a"] = "changed"
		result["tags"].([]interface{})[0] = "changed"

		f, _ := ep.Output.Get("meta")
		So(f.DefaultValue, ShouldResemble, map[string]interface{}{"a": "1"})

		again, err := FormatResponse(decodeJSON(`{"response": {}}`), ep)
		So(err, ShouldBeNil)
		So(again, ShouldResemble, want)
	})

	Convey("Falsy roots count as missing", t, func() {
		ep := &schema.Endpoint{
			ID: "falsy", URL: "/f", Method: "GET", ResponseRoot: "response",
			Output: schema.NewFields().
				Set("name", schema.Output("name", schema.String, false).WithDefault("none")),
		}
		for _, doc := range []string{`{"response": ""}`, `{"response": false}`, `{"response": 0}`, `{"response": null}`} {
			_, err := FormatResponse(decodeJSON(doc), ep)
			So(err, ShouldNotBeNil)

			var v *ViolationError
			So(errors.As(err, &v), ShouldBeTrue)
			So(v.Reason, ShouldEqual, ReasonMissingRoot)
		}

		Convey("while truthy scalars still pass through", func() {
			passThrough := &schema.Endpoint{ID: "purpose", URL: "/p", Method: "POST", ResponseRoot: "result"}
			out, err := FormatResponse(decodeJSON(`{"result": "ok"}`), passThrough)
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "ok")
		})
	})

	Convey("Required output fields only need to be present", t, func() {
		ep := &schema.Endpoint{
			ID: "required", URL: "/r", Method: "GET", ResponseRoot: "response",
			Output: schema.NewFields().Set("id", schema.Output("id", schema.String, true)),
		}
		out, err := FormatResponse(decodeJSON(`{"response": {"id": ""}}`), ep)
		So(err, ShouldBeNil)
		So(out, ShouldResemble, map[string]interface{}{"id": ""})

		_, err = FormatResponse(decodeJSON(`{"response": {"id": null}}`), ep)
		So(err, ShouldNotBeNil)
	})

	Convey("Dotted sources lift deeply nested values", t, func() {
		ep := &schema.Endpoint{
			ID: "order", URL: "/o", Method: "GET", ResponseRoot: "response",
			Output: schema.NewFields().
				Set("paymentOptions", schema.Output("cardPaymentData.pgData.paymentOptions", schema.Array, true).
					WithNested(schema.NewFields().Set("id", schema.Output("id", schema.String, true)))).
				Set("firstOption", schema.Output("cardPaymentData.pgData.paymentOptions.0.id", schema.String, false)).
				Set("metadata", schema.Output("metadata", schema.Any, false)),
		}
		out, err := FormatResponse(decodeJSON(`{"response": {
			"cardPaymentData": {"pgData": {"paymentOptions": [{"id": "sepa", "name": "SEPA"}]}},
			"metadata": [1, "two"]
		}}`), ep)
		So(err, ShouldBeNil)
		So(out, ShouldResemble, map[string]interface{}{
			"paymentOptions": []interface{}{map[string]interface{}{"id": "sepa"}},
			"firstOption":    "sepa",
			"metadata":       []interface{}{float64(1), "two"},
		})

		Convey("and a broken intermediate segment is simply not found", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {"cardPaymentData": null}}`), ep)
			So(err.Error(), ShouldStartWith, "Missing required field: paymentOptions")
		})
	})

	Convey("Pass-through mode returns the root unchanged", t, func() {
		ep := &schema.Endpoint{ID: "list", URL: "/l", Method: "GET", ResponseRoot: "response"}
		payload := decodeJSON(`{"response": [{"symbol": "EUR", "extra": {"a": 1}}]}`)
		out, err := FormatResponse(payload, ep)
		So(err, ShouldBeNil)
		So(out, ShouldResemble, payload.(map[string]interface{})["response"])

		Convey("including scalar roots", func() {
			ep.ResponseRoot = "result"
			out, err := FormatResponse(decodeJSON(`{"result": "ok"}`), ep)
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "ok")
		})
	})
}

func TestCanonicalExampleScenario(t *testing.T) {
	Convey("Given the canonical example schema", t, func() {
		ep := loadEndpoint(`
id: example
url: /example
method: GET
response_root_field_name: response
output_fields:
  simpleString: {source: simpleString, type: string, isRequired: true}
  nestedObject:
    source: nested
    type: object
    isRequired: true
    nestedFields:
      deepString: {source: deepString, type: string, isRequired: true}
  nestedArray:
    source: items
    type: array
    isRequired: true
    nestedFields:
      id: {source: id, type: string, isRequired: true}
      value: {source: value, type: number, isRequired: false, defaultValue: 0}
`)

		Convey("The upstream shape is renamed into the canonical one", func() {
			out, err := FormatResponse(decodeJSON(`{"response": {"simpleString": "x", "nested": {"deepString": "y"}, "items": [{"id": "1"}]}}`), ep)
			So(err, ShouldBeNil)
			So(out, ShouldResemble, decodeJSON(`{"simpleString": "x", "nestedObject": {"deepString": "y"}, "nestedArray": [{"id": "1", "value": 0}]}`))
		})

		Convey("Omitting items fails naming nestedArray", func() {
			_, err := FormatResponse(decodeJSON(`{"response": {"simpleString": "x", "nested": {"deepString": "y"}}}`), ep)
			So(err.Error(), ShouldStartWith, "Missing required field: nestedArray")
		})
	})
}
