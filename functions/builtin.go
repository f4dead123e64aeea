package functions

// RegisterBuiltins registers every built-in scalar function into r
func RegisterBuiltins(r *FunctionRegistry) {
	builtins := []Function{
		// math
		NewAbsFunction(),
		NewModFunction(),
		NewPowerFunction(),
		NewSqrtFunction(),
		NewRoundFunction(),

		// string
		NewUpperFunction(),
		NewLowerFunction(),
		NewTrimFunction(),
		NewLengthFunction(),
		NewConcatFunction(),
		NewSubstringFunction(),
		NewStartswithFunction(),

		// hash
		NewMd5Function(),
		NewSha1Function(),
		NewSha256Function(),

		// conversion
		NewToStringFunction(),
	}
	for _, fn := range builtins {
		_ = r.Register(fn)
	}
}
