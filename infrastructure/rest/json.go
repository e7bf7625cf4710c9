package rest

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/labstack/echo/v4"
)

// jsonSerializer makes echo speak the same JSON dialect as the socket frames.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i any, indent string) error {
	if indent != "" {
		return json.MarshalWrite(c.Response(), i, jsontext.WithIndent(indent))
	}
	return json.MarshalWrite(c.Response(), i)
}

func (jsonSerializer) Deserialize(c echo.Context, i any) error {
	return json.UnmarshalRead(c.Request().Body, i)
}
