package blend_stack

// BlendStackBuilderOption is a functional option for configuring a BlendStack during construction.
type BlendStackBuilderOption func(*blendStack)

// WithJointCount is an option builder that sizes the stack's per-joint buffers.
//
// Parameters:
//   - count: the skeleton's joint count
//
// Returns:
//   - BlendStackBuilderOption: a function that applies the joint count to a blend stack
func WithJointCount(count int) BlendStackBuilderOption {
	return func(b *blendStack) {
		b.Resize(count)
	}
}

// WithLayer is an option builder that fills a layer slot at construction.
// Out-of-range indices are ignored.
//
// Parameters:
//   - index: the layer slot in [0, MaxLayers)
//   - layer: the layer contents
//
// Returns:
//   - BlendStackBuilderOption: a function that applies the layer to a blend stack
func WithLayer(index int, layer Layer) BlendStackBuilderOption {
	return func(b *blendStack) {
		if index >= 0 && index < MaxLayers {
			b.layers[index] = layer
		}
	}
}
