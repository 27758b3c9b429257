package gemini

// providerName tags errors raised by this package.
const providerName = "gemini"

// DefaultModel is used when a request carries no model name.
const DefaultModel = "gemini-2.5-flash"
