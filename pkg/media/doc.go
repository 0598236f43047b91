// Package media resolves stored media keys into URLs a submission client can
// fetch.
//
// Scheduled posts reference uploads by key, not by URL: buckets stay private
// and every delivery attempt gets a fresh short-lived link. S3Resolver checks
// the object exists with a HeadObject call, then issues a presigned GET URL
// scoped under the owning account's prefix, so a post can never point at
// another account's uploads. BaseURLResolver covers development setups and
// CDN-fronted public buckets by joining the key onto a static base URL.
//
//	resolver, err := media.NewS3Resolver(ctx, cfg.S3())
//	if err != nil {
//	    return err
//	}
//	url, err := resolver.Resolve(ctx, post.MediaKey, post.OwnerID)
//	if err != nil {
//	    // callers treat media as optional and fall back to text-only
//	}
//
// Errors are classified into package sentinels (ErrMediaNotFound,
// ErrAccessDenied, ErrServiceUnavailable, ...) so callers can distinguish a
// missing upload from an unavailable object store. Resolution failures are
// advisory: the posting pipeline logs them and continues without media.
package media
