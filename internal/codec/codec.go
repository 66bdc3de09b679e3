package codec

// Codec encodes and decodes rows. The zero value is not useful; use New.
type Codec struct {
	images ImagePolicy
}

// Option configures a Codec.
type Option func(*Codec)

// WithImagePolicy sets how image columns are written.
//
// Default: ImageFlag (presence only).
func WithImagePolicy(p ImagePolicy) Option {
	return func(c *Codec) {
		c.images = p
	}
}

// New creates a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{images: ImagePolicy{Mode: ImageFlag, CellLimit: DefaultImageCellLimit}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
