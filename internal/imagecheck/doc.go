// Package imagecheck verifies whether an image URL is publicly fetchable.
//
// The check is deliberately shallow: a single HEAD request confirms the URL
// responds with an image content type, nothing more. No pixels are fetched
// and no reverse-image search runs. Every result carries a fixed disclaimer
// stating these limits, and failures degrade into an unanalyzed result with
// a limitation note instead of an error.
//
// Design decision: the content identifier attached to analyzed results is a
// hash of response metadata, not of image content. Reasons:
//  1. A true perceptual hash requires downloading and decoding the image,
//     which this check avoids on purpose.
//  2. The identifier only needs to be stable enough to notice when the same
//     URL starts serving a different resource between scans.
//  3. The disclaimer discloses exactly what the identifier is, so consumers
//     cannot mistake it for a visual fingerprint.
package imagecheck
