// Package openapi maps settings schemas to and from OpenAPI 3 object schemas.
//
// Export describes a Registry as an object schema whose properties carry the
// field kind, bounds and default, with layout and presentation metadata kept
// under the x-settingsgen extension. Import and Loader reverse the mapping so a
// host can declare its schema in an OpenAPI document. ValidateRecord checks a
// record against the exported schema before a host persists it; resolution in
// pkg/model never depends on it.
package openapi
