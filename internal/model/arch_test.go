package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearCounts(t *testing.T) {
	a := Linear()
	assert.Equal(t, 7850, a.CoefficientCount())
	assert.Equal(t, 7840, a.MultiplyCount())
}

func TestMLPCounts(t *testing.T) {
	for _, h := range []int{128, 256, 512, 1024, 2046} {
		a := MLP(h)
		assert.Equal(t, 784*h+h+h*10+10, a.CoefficientCount(), "coefficients for h=%d", h)
		assert.Equal(t, 784*h+h*10, a.MultiplyCount(), "multiplies for h=%d", h)
	}
}

func TestMLPCounts_Chain(t *testing.T) {
	a := MLP(300, 100)
	assert.Equal(t, 784*300+300*100+100*10, a.MultiplyCount())
	assert.Equal(t, (784*300+300)+(300*100+100)+(100*10+10), a.CoefficientCount())
}

func TestCNNCounts(t *testing.T) {
	simple := CNN(true)
	assert.Equal(t, 1*5*5*20*28*28+20*5*5*20*14*14+7*7*20*10, simple.MultiplyCount())
	assert.Equal(t, (1*5*5*20+20)+(20*5*5*20+20)+(7*7*20*10+10), simple.CoefficientCount())

	full := CNN(false)
	assert.Equal(t, 1*5*5*20*28*28+20*5*5*20*14*14+7*7*20*100+100*10, full.MultiplyCount())
	assert.Equal(t, (1*5*5*20+20)+(20*5*5*20+20)+(7*7*20*100+100)+(100*10+10), full.CoefficientCount())
}

func TestCountsAreDeterministic(t *testing.T) {
	for _, a := range []Arch{Linear(), MLP(512), CNN(true), CNN(false)} {
		assert.Equal(t, a.MultiplyCount(), a.MultiplyCount())
		assert.Equal(t, a.CoefficientCount(), a.CoefficientCount())
	}
}

func TestArchValidate(t *testing.T) {
	tests := []struct {
		name    string
		arch    Arch
		wantErr string
	}{
		{"linear", Linear(), ""},
		{"mlp", MLP(128), ""},
		{"cnn simple", CNN(true), ""},
		{"cnn full", CNN(false), ""},
		{"empty kind", Arch{}, "kind is empty"},
		{"unknown kind", Arch{Kind: "rnn"}, "unknown architecture kind"},
		{"mlp without layers", Arch{Kind: KindMLP}, "at least one hidden layer"},
		{"mlp with zero width", MLP(128, 0), "non-positive width"},
		{"linear with hidden", Arch{Kind: KindLinear, Hidden: []int{3}}, "no hidden layers"},
		{"cnn with hidden", Arch{Kind: KindCNN, Hidden: []int{3}}, "no hidden layers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.arch.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestArchString(t *testing.T) {
	assert.Equal(t, "linear", Linear().String())
	assert.Equal(t, "mlp[512]", MLP(512).String())
	assert.Equal(t, "mlp[300,100]", MLP(300, 100).String())
	assert.Equal(t, "cnn-simple", CNN(true).String())
	assert.Equal(t, "cnn", CNN(false).String())
}

func TestMLPCopiesHidden(t *testing.T) {
	hidden := []int{64}
	a := MLP(hidden...)
	hidden[0] = 1
	assert.Equal(t, []int{64}, a.Hidden)
}
