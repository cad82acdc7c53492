package resttest

import (
	"github.com/gaborage/go-restkit/rest"
)

// NewResponse creates a canned response with the given status and raw body.
// Attach headers with Response.WithHeader.
func NewResponse(status int, body []byte) *rest.Response {
	return &rest.Response{StatusCode: status, Body: body}
}

// TextResponse creates a canned response with a string body.
func TextResponse(status int, body string) *rest.Response {
	return NewResponse(status, []byte(body))
}

// JSONResponse creates a canned response whose body is the JSON encoding of
// payload. Encoding failures surface as a mock transport fault so a broken
// fixture fails the test loudly instead of being served as garbage.
func JSONResponse(status int, payload any) (*rest.Response, error) {
	body, err := rest.DefaultCodec.Encode(payload)
	if err != nil {
		return nil, rest.NewMockTransportError("failed to encode fixture payload: "+err.Error(), 0, false)
	}
	return NewResponse(status, body), nil
}

// TextErrorResponse creates a canned non-2xx response with a plain-text body.
func TextErrorResponse(status int, message string) *rest.Response {
	return TextResponse(status, message)
}

// JSONErrorResponse creates a canned non-2xx response with a JSON body.
func JSONErrorResponse(status int, payload any) (*rest.Response, error) {
	return JSONResponse(status, payload)
}
