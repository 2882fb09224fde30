// Package listing implements the fixed-price sale lifecycle: list a token,
// cancel the listing, buy it, or buy several listings in one atomic batch.
package listing
