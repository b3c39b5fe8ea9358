package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	passwords map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{passwords: make(map[string]string)}
}

func (m *MockStore) SetPassword(username string, password string) error {
	m.passwords[NormalizeUsername(username)] = password
	return nil
}

func (m *MockStore) GetPassword(username string) (string, error) {
	pw, ok := m.passwords[NormalizeUsername(username)]
	if !ok {
		return "", ErrPasswordNotFound
	}
	return pw, nil
}

func (m *MockStore) DeletePassword(username string) error {
	key := NormalizeUsername(username)
	if _, ok := m.passwords[key]; !ok {
		return ErrPasswordNotFound
	}
	delete(m.passwords, key)
	return nil
}
