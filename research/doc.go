// Package research implements the retrieval-and-synthesis orchestrator: it
// decomposes a user query into search terms, fans those terms out across the
// knowledge stack and the web search provider, evaluates whether the
// accumulated evidence answers the question, retries under a bounded budget,
// and streams typed progress events ending in exactly one terminal event.
package research
