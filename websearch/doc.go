// Package websearch wraps external web search providers behind a common
// Client interface. Supported providers are Tavily, SerpAPI, and the
// DuckDuckGo instant answer API; results are normalized so the research
// engine never sees provider-specific shapes.
package websearch
