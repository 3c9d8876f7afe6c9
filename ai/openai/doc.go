// Package openai implements the ai interfaces using OpenAI-compatible APIs.
//
// It works with any service exposing the OpenAI embeddings endpoint,
// including Ollama, LocalAI, and vLLM, as well as OpenAI itself.
package openai
