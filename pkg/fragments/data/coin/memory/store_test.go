package memory

import (
	"testing"

	"github.com/code-payments/fragments/pkg/fragments/data/coin/tests"
)

func TestCoinMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
