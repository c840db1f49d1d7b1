// Package nscache is a namespaced cache facade over a string key-value store
// (Redis by default). Each Cache is bound to one namespace; every key it
// touches is stored as "<namespace>:<key>", so caches sharing a server never
// see each other's entries and a whole namespace can be purged at once.
//
// Values:
//
//	Null              - stored as ""
//	Scalar(string)    - stored verbatim
//	Vector / Matrix   - stored through codec, tagged with codec.Marker
//
// A read that finds codec.Marker inside the stored string decodes it back into
// an array; anything else comes back as a Scalar. Scalars that contain the
// marker are therefore refused on write (ErrReservedToken).
//
// Lifetimes:
//
//	c.Set(ctx, k, v)                      // DefaultLifetime (15m unless changed)
//	c.SetWithLifetime(ctx, k, v, time.Hour)
//	c.Get(ctx, k)                         // refreshes the TTL unless extend-on-get is off
//
// Every store call is bounded by the ctx passed in.
package nscache
