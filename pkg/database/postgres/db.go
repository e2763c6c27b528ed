package pg

// ExecuteRetryable runs fn again for as long as it fails with a
// serialization failure
func ExecuteRetryable(fn func() error) error {
	for {
		err := fn()
		if err == nil || !IsSerializationFailure(err) {
			return err
		}
	}
}
