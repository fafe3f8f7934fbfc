package bot

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/ledger"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/models"
	"github.com/Ashed2127/Telegram-bot-for-ASHED/internal/telegram"
)

var amountPrinter = message.NewPrinter(language.English)

// formatBalance renders an ASHED amount as bold MarkdownV2 with thousand
// separators, e.g. *1,234* ASHED.
func formatBalance(amount int64) string {
	return "*" + telegram.EscapeMarkdown(amountPrinter.Sprintf("%d", amount)) + "* ASHED"
}

func startReply() string {
	return "✨ *Welcome to ASHED Bot* ✨\n\n" +
		"🌐 *What is ASHED?*\n" +
		"ASHED represents ownership rights to realistic artworks\\.\n\n" +
		"📋 *Available Commands:*\n" +
		"`/your_account` \\- Create/get your ASHED account\n" +
		"`/transfer_ashed <user_id> <amount>` \\- Transfer ASHED\n" +
		"`/transaction_history` \\- View your transaction history\n" +
		"`/help` \\- Show this message\n\n" +
		"💡 *Tip:* Use `/help` anytime to see commands"
}

func helpReply() string {
	return "📜 *ASHED Bot Help* 📜\n\n" +
		"✨ *Available Commands:*\n\n" +
		"`/start` \\- Welcome message and bot info\n" +
		"`/your_account` \\- Create/get your ASHED account\n" +
		"`/transfer_ashed <user_id> <amount>` \\- Send ASHED to another account\n" +
		"`/check_ashed` \\- Check your balance\n" +
		"`/transaction_history` \\- View your transaction history\n" +
		"`/help` \\- Show this message\n\n" +
		"💡 *Tip:* Always verify account IDs before transferring\\!"
}

func unknownReply() string {
	return "⚠️ *Unknown Command*\n\n" +
		"I don't recognize that command\\.\n" +
		"Type `/help` to see available commands\\."
}

func adminOnlyReply() string {
	return "❌ *Admin Command*\n\n" +
		"This command is only available to administrators\\."
}

func usageReply(e *ParseError) string {
	return "❌ *Invalid Input*\n\n" +
		telegram.EscapeMarkdown(e.Reason) + "\\.\n" +
		"✨ *Usage:* `" + e.Usage + "`"
}

func accountReply(address string, balance int64) string {
	return "🔐 *Your ASHED Account* 🔐\n\n" +
		"🏦 *Account ID:* `" + telegram.EscapeMarkdown(address) + "`\n" +
		"💼 *Balance:* " + formatBalance(balance) + "\n\n" +
		"💳 Use this ID to receive ASHED tokens from others\\."
}

func mintReply(amount, balance int64) string {
	return "✅ *Tokens Added Successfully* ✅\n\n" +
		"💰 *Amount Added:* " + formatBalance(amount) + "\n" +
		"🏦 *New Balance:* " + formatBalance(balance) + "\n\n" +
		"🔄 Use `/check_ashed` to verify your balance"
}

func transferReply(tx models.Transaction, senderBalance int64) string {
	return "✅ *Transfer Successful* ✅\n\n" +
		"📤 *From:* `" + telegram.EscapeMarkdown(tx.FromAddress) + "`\n" +
		"📥 *To:* `" + telegram.EscapeMarkdown(tx.ToAddress) + "`\n" +
		"💰 *Amount:* " + formatBalance(tx.Amount) + "\n\n" +
		"🏦 *Your New Balance:* " + formatBalance(senderBalance) + "\n\n" +
		"📜 View your transaction history with `/transaction_history`"
}

func balanceReply(address string, balance int64) string {
	return "💰 *Your ASHED Balance* 💰\n\n" +
		"🏦 *Account ID:* `" + telegram.EscapeMarkdown(address) + "`\n" +
		"💵 *Balance:* " + formatBalance(balance) + "\n\n" +
		"🔄 Use `/transfer_ashed` to send tokens to others\n" +
		"📜 View your transaction history with `/transaction_history`"
}

func historyReply(address string, txs []models.Transaction) string {
	if len(txs) == 0 {
		return "ℹ️ *No Transactions Found*\n\n" +
			"You haven't made or received any transfers yet\\."
	}

	var b strings.Builder
	b.WriteString("📜 *Your Transaction History* 📜\n\n")
	for _, tx := range txs {
		direction := "📥 Received"
		otherParty := tx.FromAddress
		if tx.FromAddress == address {
			direction = "📤 Sent"
			otherParty = tx.ToAddress
		}
		timestamp := tx.Timestamp.UTC().Format("2006-01-02 15:04:05")
		fmt.Fprintf(&b, "⏰ *%s*\n%s %s to `%s`\n\n",
			telegram.EscapeMarkdown(timestamp),
			direction,
			formatBalance(tx.Amount),
			telegram.EscapeMarkdown(otherParty))
	}
	return b.String()
}

func listAccountsReply(accounts []models.Account) string {
	if len(accounts) == 0 {
		return "ℹ️ *No Accounts Found*\n\n" +
			"There are no ASHED accounts yet\\.\n" +
			"Create one with `/your_account`"
	}

	var b strings.Builder
	b.WriteString("📋 *All ASHED Accounts* 📋\n\n")
	for _, account := range accounts {
		fmt.Fprintf(&b, "• `%s`: %s\n",
			telegram.EscapeMarkdown(account.Address),
			formatBalance(account.Balance))
	}
	return b.String()
}

func rejectionReply(err error) string {
	switch {
	case errors.Is(err, ledger.ErrUnknownAccount), errors.Is(err, ledger.ErrUnknownSender):
		return "❌ *Account Not Found*\n\n" +
			"You don't have an ASHED account yet\\!\n" +
			"Create one with `/your_account`"
	case errors.Is(err, ledger.ErrUnknownRecipient):
		return "❌ *Recipient Not Found*\n\n" +
			"That account doesn't exist\\.\n" +
			"Ask the recipient to create an account first\\."
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "❌ *Insufficient Balance*\n\n" +
			"You don't have enough ASHED for this transfer\\."
	case errors.Is(err, ledger.ErrNonPositiveAmount):
		return "⚠️ *Invalid Amount*\n\n" +
			"Amount must be a positive number\\!"
	default:
		return "❌ *Transfer Failed*\n\n" +
			"Something went wrong\\. Please try again or contact support\\."
	}
}
