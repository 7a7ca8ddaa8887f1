package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/crackthecode/internal/dependencies/mocks"
	"github.com/mcoot/crackthecode/internal/passhash"
	"github.com/mcoot/crackthecode/internal/services/auth"
	"github.com/mcoot/crackthecode/internal/services/quote"
	"github.com/mcoot/crackthecode/internal/services/scheduler"
	"github.com/mcoot/crackthecode/internal/storage/memory"
	"github.com/mcoot/crackthecode/internal/testutil"
)

// TestQuote is the quote every test app's daily puzzle is built from
var TestQuote = quote.Quote{Text: "Stay hungry, stay foolish.", Author: "Steve Jobs"}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MemoryStore *memory.Storage
	MemoryFiles *testutil.MemoryFiles
	StaticQuote *quote.Static
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	files := testutil.NewMemoryFiles()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	quotes := &quote.Static{Quote: TestQuote}

	app := newWithDependencies(dependencies{
		store:    store,
		files:    files,
		clock:    mockClock,
		random:   mockRandom,
		quotes:   quotes,
		hasher:   passhash.New(bcrypt.MinCost),
		authCfg:  auth.DefaultConfig(),
		resetCfg: scheduler.DefaultConfig(),
		logger:   testutil.NopLogger(),
	})

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MemoryStore: store,
		MemoryFiles: files,
		StaticQuote: quotes,
	}
}
