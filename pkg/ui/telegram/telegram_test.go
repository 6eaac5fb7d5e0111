package telegram

import (
	"testing"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	ui "github.com/mutablelogic/go-jack/pkg/ui"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func Test_telegram_001(t *testing.T) {
	assert := assert.New(t)

	users, err := ParseUsers(" 123, 456 ,")
	assert.NoError(err)
	assert.Equal([]int64{123, 456}, users)

	_, err = ParseUsers("123,abc")
	assert.ErrorIs(err, jack.ErrBadParameter)

	_, err = ParseUsers(" , ")
	assert.ErrorIs(err, jack.ErrBadParameter)
}

func Test_telegram_002(t *testing.T) {
	assert := assert.New(t)

	_, err := New("", []int64{1})
	assert.ErrorIs(err, jack.ErrBadParameter)

	_, err = New("token", nil)
	assert.ErrorIs(err, jack.ErrBadParameter)
}

func Test_telegram_003(t *testing.T) {
	assert := assert.New(t)
	bot := newTelegram([]int64{42})

	assert.True(bot.isAllowed(&tele.User{ID: 42}))
	assert.False(bot.isAllowed(&tele.User{ID: 7}))
	assert.False(bot.isAllowed(nil))
}

func Test_telegram_004(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(keyboard(nil))

	markup := keyboard([]ui.Button{{Label: "One", Data: "read:1"}, {Label: "Two", Data: "read:2"}})
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal("One", markup.InlineKeyboard[0][0].Text)
	assert.Equal("read:2", markup.InlineKeyboard[1][0].Data)
}

func Test_telegram_005(t *testing.T) {
	assert := assert.New(t)

	ctx := &telegramContext{
		chat: &tele.Chat{ID: -100},
		user: &tele.User{ID: 42, FirstName: "Ada", LastName: "Lovelace"},
	}
	assert.Equal("42", ctx.UserID())
	assert.Equal("Ada Lovelace", ctx.UserName())
	assert.Equal("-100", ctx.ConversationID())

	ctx.user.Username = "ada"
	assert.Equal("ada", ctx.UserName())
}
