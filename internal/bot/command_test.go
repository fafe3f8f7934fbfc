package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{"start", "/start", Command{Kind: KindStart, Name: "/start"}},
		{"account", "/your_account", Command{Kind: KindAccount, Name: "/your_account"}},
		{"balance", "/check_ashed", Command{Kind: KindBalance, Name: "/check_ashed"}},
		{"history", "/transaction_history", Command{Kind: KindHistory, Name: "/transaction_history"}},
		{"list", "/list_accounts", Command{Kind: KindListAccounts, Name: "/list_accounts"}},
		{"help", "/help", Command{Kind: KindHelp, Name: "/help"}},
		{"commands alias", "/commands", Command{Kind: KindHelp, Name: "/commands"}},
		{"mint", "/add_ashed 500", Command{Kind: KindMint, Name: "/add_ashed", Amount: 500}},
		{"transfer", "/transfer_ashed 12345 100", Command{Kind: KindTransfer, Name: "/transfer_ashed", Recipient: "12345", Amount: 100}},
		{"case insensitive", "/START", Command{Kind: KindStart, Name: "/start"}},
		{"extra whitespace", "  /add_ashed   25  ", Command{Kind: KindMint, Name: "/add_ashed", Amount: 25}},
		{"trailing words ignored", "/your_account please", Command{Kind: KindAccount, Name: "/your_account"}},
		{"unknown", "/frobnicate", Command{Kind: KindUnknown, Name: "/frobnicate"}},
		{"plain text", "hello there", Command{Kind: KindUnknown, Name: "hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parseErr := Parse(tt.text)
			require.Nil(t, parseErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
	}{
		{"mint missing amount", "/add_ashed", KindMint},
		{"mint zero", "/add_ashed 0", KindMint},
		{"mint negative", "/add_ashed -10", KindMint},
		{"mint not a number", "/add_ashed lots", KindMint},
		{"transfer missing args", "/transfer_ashed", KindTransfer},
		{"transfer missing amount", "/transfer_ashed 12345", KindTransfer},
		{"transfer zero", "/transfer_ashed 12345 0", KindTransfer},
		{"transfer garbage amount", "/transfer_ashed 12345 much", KindTransfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parseErr := Parse(tt.text)
			require.NotNil(t, parseErr)
			assert.Equal(t, tt.kind, got.Kind)
			assert.NotEmpty(t, parseErr.Usage)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	assert.True(t, KindMint.AdminOnly())
	assert.True(t, KindListAccounts.AdminOnly())
	assert.False(t, KindTransfer.AdminOnly())
	assert.False(t, KindBalance.AdminOnly())
	assert.False(t, KindUnknown.AdminOnly())
}
