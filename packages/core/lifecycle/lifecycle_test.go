package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine(t *testing.T) {
	t.Run("passes without a decision", func(t *testing.T) {
		m := NewMachine()
		require.NoError(t, m.Enter(SettingUp))
		require.NoError(t, m.Enter(Running))
		require.NoError(t, m.Enter(TearingDown))
		s, err := m.Settle()
		require.NoError(t, err)
		assert.Equal(t, Passed, s)
		assert.True(t, s.Terminal())
	})

	t.Run("skip during setup goes straight to teardown", func(t *testing.T) {
		m := NewMachine()
		require.NoError(t, m.Enter(SettingUp))
		m.Decide(Skipped)
		require.NoError(t, m.Enter(TearingDown))
		s, err := m.Settle()
		require.NoError(t, err)
		assert.Equal(t, Skipped, s)
	})

	t.Run("first decision wins", func(t *testing.T) {
		m := NewMachine()
		require.NoError(t, m.Enter(SettingUp))
		require.NoError(t, m.Enter(Running))
		m.Decide(Failed)
		m.Decide(Errored)
		assert.Equal(t, Failed, m.Outcome())
	})

	t.Run("teardown error demotes only passing instances", func(t *testing.T) {
		for _, tt := range []struct{ decided, want State }{
			{Pending, Errored},
			{Failed, Failed},
			{Skipped, Skipped},
		} {
			m := NewMachine()
			require.NoError(t, m.Enter(SettingUp))
			require.NoError(t, m.Enter(Running))
			m.Decide(tt.decided)
			require.NoError(t, m.Enter(TearingDown))
			if tt.decided == Pending {
				m.Decide(Passed)
			}
			m.TeardownFailed()
			s, err := m.Settle()
			require.NoError(t, err)
			assert.Equal(t, tt.want, s, "decided %s", tt.decided)
		}
	})

	t.Run("rejects invalid transitions", func(t *testing.T) {
		m := NewMachine()
		err := m.Enter(Running)
		var te *TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, Pending, te.From)

		_, err = m.Settle()
		assert.Error(t, err)
	})
}

func TestState(t *testing.T) {
	assert.Equal(t, "tearing down", TearingDown.String())
	assert.True(t, Errored.Failing())
	assert.False(t, Skipped.Failing())
	assert.True(t, Skipped.Reported())
	assert.False(t, Deferred.Reported())
	assert.False(t, NotApplicable.Reported())
	assert.True(t, Deferred.Terminal())
	assert.Equal(t, Errored, AfterTeardownError(Passed))
}
