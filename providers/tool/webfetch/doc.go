// Package webfetch provides a tool that fetches a web page and converts its
// HTML content to Markdown so a language model can read it.
package webfetch
