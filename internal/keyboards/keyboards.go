// Package keyboards builds the shared inline keyboards.
package keyboards

import "flowershop-bot/internal/chat"

func MainMenu() [][]chat.Button {
	kb := chat.NewKeyboard()
	kb.Button("🛒 Замовити товар", string(chat.VerbMainOrder))
	kb.Button("🛍️ Кошик", string(chat.VerbMainCart))
	kb.Button("🔎 Пошук товару", string(chat.VerbMainSearch))
	kb.Button("💬 Відправити відгук", string(chat.VerbMainFeedback))
	kb.Adjust(1)
	return kb.Rows()
}

func AdminPanel() [][]chat.Button {
	kb := chat.NewKeyboard()
	kb.Button("➕ Додати місто", string(chat.VerbAdminAddCity))
	kb.Button("📝 Редагувати місто", string(chat.VerbAdminEditCity))
	kb.Button("❌ Видалити місто", string(chat.VerbAdminDeleteCity))
	kb.Button("➕ Додати товар", string(chat.VerbAdminAddProduct))
	kb.Button("📝 Редагувати товар", string(chat.VerbAdminEditProduct))
	kb.Button("❌ Видалити товар", string(chat.VerbAdminDeleteProduct))
	kb.Button("📋 Створити PDF умов", string(chat.VerbAdminCreateTerms))
	kb.Adjust(1)
	return kb.Rows()
}
