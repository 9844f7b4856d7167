// Package schema holds the declarative description of an upstream API:
// endpoints, their request parameters and bodies, and the output fields a
// response is reshaped into.
//
// Schemas are usually authored in YAML:
//
//	id: get_order_by_id
//	url: /api/v2/orders/{orderId}
//	method: GET
//	path_params:
//	  orderId: {type: string, isRequired: true}
//	response_root_field_name: response
//	output_fields:
//	  id: {source: id, type: string, isRequired: true}
//	  paymentOptions:
//	    source: cardPaymentData.pgData.paymentOptions
//	    type: array
//	    isRequired: true
//	    nestedFields:
//	      id: {source: id, type: string, isRequired: true}
//
// Field order is significant and kept. Once loaded and checked, an Endpoint
// is treated as read-only.
package schema
