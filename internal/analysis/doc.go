// Package analysis implements the AI analysis pipeline: prompt construction,
// response parsing, a deterministic heuristic fallback, and the orchestrator
// that sequences them around a remote language-model call. It abstracts the
// model behind the ModelClient interface so the application can analyze todos
// and context entries without coupling to a specific provider, and so every
// operation degrades gracefully to the heuristic path when the provider is
// disabled or failing.
package analysis
