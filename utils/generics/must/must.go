package must

// Must panics on err. Used for package-level values that are known valid at build time.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
