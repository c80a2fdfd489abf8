// Package itemid provides the external identifiers used for repository items.
//
// An identifier is a provider prefix and a provider-specific path joined by
// the first ':'. The prefix routes a request to a repository backend; the path
// is opaque to everything but that backend.
//
// # Usage Examples
//
//	id, err := itemid.Parse("fcrepo:pcdm::aabbccdd-thesis")
//	if err != nil {
//	    return err
//	}
//	id.Provider() // "fcrepo"
//	id.Path()     // "pcdm::aabbccdd-thesis"
//
//	legacy, _ := itemid.New(itemid.ProviderTypeFedora2, "umd:1234")
//	legacy.String() // "fedora2:umd:1234"
//
// Paths handed out by the fcrepo backend are compressed with package
// pathcodec; any '/' left in a path is escaped as %2F in String and decoded
// again by Parse.
package itemid
