package retarget

// RetargeterBuilderOption is a functional option for configuring a Retargeter during construction.
type RetargeterBuilderOption func(*retargeter)

// WithHipsTranslationOnly is an option builder that transcribes translation for the hips alone,
// keeping every other target joint at its bind translation.
//
// Parameters:
//   - enabled: whether only the hips receive translation
//
// Returns:
//   - RetargeterBuilderOption: a function that applies the option to a retargeter
func WithHipsTranslationOnly(enabled bool) RetargeterBuilderOption {
	return func(r *retargeter) {
		r.hipsTranslationOnly = enabled
	}
}
