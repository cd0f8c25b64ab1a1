// Package tools defines tool contracts, the tool registry and the built-in tools.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: lookup by name and schema-validated invocation.
//   - Built-in tools: multiply, get_weather (Open-Meteo current temperature).
package tools
