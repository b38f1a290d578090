// Package kanko is a client for the regional tourism spot API.
//
// The API exposes each category as one resource:
//
//	GET .../k-cloud-api/v001/kanko/<category>/json?count=true      -> {"count": N}
//	GET .../k-cloud-api/v001/kanko/<category>/json?limit=50&skip=K -> {"tourspots": [...]}
//
// Client.Count and Client.Spots issue one request each. Transport failures
// are returned as TRANSPORT_ERROR and undecodable bodies as DECODE_ERROR
// (see package errors).
package kanko
