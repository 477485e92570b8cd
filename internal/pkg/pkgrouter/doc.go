// Package pkgrouter is the HTTP edge of the service.
//
// Router wraps httprouter with a fixed middleware stack (panic recovery,
// correlation IDs and request logging) and turns Handler results into the
// {message, data, meta} JSON envelope. Errors are mapped to HTTP statuses
// through their pkgerror code. Raw handlers that stream HTML or images use
// Handle and WriteError directly.
package pkgrouter
