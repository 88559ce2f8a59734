package ports

// Normalizer prepares text before it is compared.
type Normalizer interface {
	Normalize(text string) string
}
