// Package result defines the outcome contract shared by every remote lookup
// and computation.
//
// A Result is one of Success, ApplicationError or TransportError. Callers that
// only need to branch on success or failure convert it to an Envelope, which
// marshals as {"status":"success","data":...} or {"status":"error","message":...}.
package result
