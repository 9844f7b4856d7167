package schema

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

const orderByIDDoc = `
id: get_order_by_id
name: Get Order By ID
url: /api/v2/orders/{orderId}
method: GET
headers:
  x-trace-id: string
  accept: application/json
path_params:
  orderId: {type: string, isRequired: "true"}
expected_status: 200
response_root_field_name: response
output_fields:
  id: {source: id, type: string, isRequired: true}
  amountPaid: {source: amountPaid, type: number, isRequired: false, defaultValue: 0}
`

func TestEndpointYAML(t *testing.T) {
	Convey("Given an endpoint document", t, func() {
		var ep Endpoint
		So(yaml.Unmarshal([]byte(orderByIDDoc), &ep), ShouldBeNil)

		Convey("Every attribute is decoded", func() {
			So(ep.ID, ShouldEqual, "get_order_by_id")
			So(ep.Method, ShouldEqual, "GET")
			So(ep.ExpectedStatus, ShouldEqual, 200)
			So(ep.Headers["accept"], ShouldEqual, "application/json")
			So(ep.Headers["x-trace-id"], ShouldEqual, HeaderPlaceholder)
			So(ep.PathParams.Names(), ShouldResemble, []string{"orderId"})
			So(ep.Output.Names(), ShouldResemble, []string{"id", "amountPaid"})
			So(ep.QueryParams, ShouldBeNil)
		})

		Convey("It passes the load-time checks", func() {
			So(ep.Check(), ShouldBeNil)
			So(ep.Placeholders(), ShouldResemble, []string{"orderId"})
		})
	})
}

func TestEndpointCheck(t *testing.T) {
	valid := func() *Endpoint {
		return &Endpoint{
			ID:           "cancel_order",
			URL:          "/api/v2/orders/{orderId}?cancelReason={cancelReason}",
			Method:       "DELETE",
			ResponseRoot: "response",
			PathParams: NewFields().
				Set("orderId", Input(String, true)).
				Set("cancelReason", Input(String, true)),
		}
	}

	Convey("A well-formed endpoint passes", t, func() {
		ep := valid()
		So(ep.Check(), ShouldBeNil)
		So(ep.Placeholders(), ShouldResemble, []string{"orderId", "cancelReason"})
	})

	Convey("Structural attributes are mandatory", t, func() {
		ep := valid()
		ep.ID = ""
		So(ep.Check(), ShouldNotBeNil)

		ep = valid()
		ep.URL = ""
		So(ep.Check().Error(), ShouldEqual, "endpoint cancel_order: missing url")

		ep = valid()
		ep.Method = "TRACE"
		So(ep.Check().Error(), ShouldEqual, `endpoint cancel_order: unsupported method "TRACE"`)

		ep = valid()
		ep.ResponseRoot = ""
		So(ep.Check().Error(), ShouldEqual, "endpoint cancel_order: missing response_root_field_name")
	})

	Convey("Placeholders and path params must agree", t, func() {
		ep := valid()
		ep.URL = "/api/v2/orders/{orderId}/{extra}?cancelReason={cancelReason}"
		So(ep.Check().Error(), ShouldEqual, "endpoint cancel_order: url placeholder {extra} is not declared in path_params")

		ep = valid()
		ep.URL = "/api/v2/orders/{orderId}"
		So(ep.Check().Error(), ShouldEqual, "endpoint cancel_order: path param cancelReason does not appear in url")
	})

	Convey("Bodies are only declared on mutating methods", t, func() {
		ep := &Endpoint{
			ID: "list", URL: "/list", Method: "GET", ResponseRoot: "response",
			Body: NewFields().Set("a", Input(String, true)),
		}
		So(ep.Check().Error(), ShouldEqual, "endpoint list: body declared on GET")
	})

	Convey("response_type is object or array", t, func() {
		ep := valid()
		ep.ResponseType = "list"
		So(ep.Check(), ShouldNotBeNil)
		ep.ResponseType = "array"
		So(ep.Check(), ShouldBeNil)
	})

	Convey("Output problems are reported with the endpoint id", t, func() {
		ep := valid()
		ep.Output = NewFields().Set("id", Output("", String, true))
		So(ep.Check().Error(), ShouldEqual, "endpoint cancel_order: output_fields: id: missing source")
	})
}

func TestMutating(t *testing.T) {
	Convey("Mutating methods carry bodies", t, func() {
		So(Mutating("post"), ShouldBeTrue)
		So(Mutating("PUT"), ShouldBeTrue)
		So(Mutating("PATCH"), ShouldBeTrue)
		So(Mutating("DELETE"), ShouldBeTrue)
		So(Mutating("GET"), ShouldBeFalse)
	})
}
