package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type MultiplyInput struct {
	A float64 `json:"a" jsonschema_description:"First factor."`
	B float64 `json:"b" jsonschema_description:"Second factor."`
}

var MultiplyDefinition = ToolDefinition{
	Name:        "multiply",
	Description: "Multiply two numbers together and return the product.",
	InputSchema: MultiplyInputSchema,
	Function:    Multiply,
}

var MultiplyInputSchema = GenerateSchema[MultiplyInput]()

// Multiply returns a*b in its shortest decimal form, e.g. "345" or "0.5".
func Multiply(_ context.Context, input json.RawMessage) (string, error) {
	var in MultiplyInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", err
	}
	product := in.A * in.B
	fmt.Fprintf(os.Stderr, "multiply: %v * %v = %v\n", in.A, in.B, product)
	return strconv.FormatFloat(product, 'f', -1, 64), nil
}
