// Package parse converts model-produced text into typed Go values. Models
// frequently wrap JSON in Markdown code fences or emit slightly malformed
// JSON; this package strips the fences and repairs the JSON before decoding.
package parse
