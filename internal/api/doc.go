// Package api handles incoming HTTP requests for tasks and authentication:
// request decoding and validation, error-to-status mapping and JSON
// responses. Handlers read the request's service.Caller from the context set
// by middleware.Identify and delegate to the service layer.
package api
