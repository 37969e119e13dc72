// Package client contains the santactl side of the admin RPC service.
//
// # Overview
//
// Client is the transport-agnostic contract the CLI codes against. GRPCClient
// implements it over a gRPC connection: an interceptor attaches the admin
// token to every call and status codes are mapped to sentinel errors.
//
// # Error Handling
//
// Callers match failures with errors.Is: ErrUnavailable when the server
// cannot be reached, ErrUnauthorized when the admin token is missing or
// wrong, ErrRejected when the server refused the input. The rejected error
// carries the server's message.
package client
