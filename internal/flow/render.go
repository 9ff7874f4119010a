package flow

import (
	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/locale"
)

// promptFor renders the prompt and keyboard for a state. It is a pure
// function of (state, session, clock): a back re-render produces exactly the
// same prompt a forward visit would, and it never re-executes committed side
// effects.
func (e *Engine) promptFor(st session.State, s *session.Session) Prompt {
	lang := s.Language
	if lang == "" {
		lang = locale.Default
	}

	switch st {
	case session.StateLanguage:
		return Prompt{
			Text:  locale.Text(locale.Default, locale.KeyWelcome),
			Photo: e.cfg.HasImage,
			Keyboard: Keyboard{
				Reply: [][]ReplyButton{replyRow(locale.Options(lang, locale.OptLanguages))},
			},
		}

	case session.StatePersonType:
		var rows [][]ReplyButton
		for _, opt := range locale.Options(lang, locale.OptPersonTypes) {
			rows = append(rows, []ReplyButton{{Label: opt}})
		}
		rows = append(rows, backRow(lang))
		return Prompt{
			Text:     locale.Text(lang, locale.KeyAskPerson),
			Keyboard: Keyboard{Reply: rows},
		}

	case session.StatePhone:
		return Prompt{
			Text: locale.Text(lang, locale.KeyAskPhone),
			Keyboard: Keyboard{
				Reply: [][]ReplyButton{
					{{Label: locale.Text(lang, locale.KeyShareContact), RequestContact: true}},
					backRow(lang),
				},
			},
		}

	case session.StateName:
		return Prompt{
			Text:     locale.Text(lang, locale.KeyAskName),
			Keyboard: Keyboard{Remove: true},
		}

	case session.StateQuantity:
		return stepperPrompt(lang, s.Quantity, e.cfg.Pricing, e.cfg.HasImage)

	case session.StateComment:
		return Prompt{
			Text: locale.Text(lang, locale.KeyAskCommentYesNo),
			Keyboard: Keyboard{
				Inline: [][]InlineButton{
					{
						{Label: locale.Text(lang, locale.KeyYes), Token: TokenCommentYes},
						{Label: locale.Text(lang, locale.KeyNo), Token: TokenCommentNo},
					},
					inlineBackRow(lang),
				},
			},
		}

	case session.StateCommentInput:
		return Prompt{
			Text:     locale.Text(lang, locale.KeyAskComment),
			Keyboard: Keyboard{Remove: true},
		}

	case session.StateArea:
		// The branch point always re-offers both choices, also when reached
		// via back after one branch was taken.
		return Prompt{
			Text: locale.Text(lang, locale.KeyAskArea),
			Keyboard: Keyboard{
				Inline: [][]InlineButton{
					{
						{Label: locale.Text(lang, locale.KeyCity), Token: TokenAreaCity},
						{Label: locale.Text(lang, locale.KeyProvince), Token: TokenAreaProv},
					},
					inlineBackRow(lang),
				},
			},
		}

	case session.StateDistrict:
		var rows [][]InlineButton
		for _, d := range locale.Options(lang, locale.OptDistricts) {
			rows = append(rows, []InlineButton{{Label: d, Token: tokenDistrictPrefix + d}})
		}
		rows = append(rows, inlineBackRow(lang))
		return Prompt{
			Text:     locale.Text(lang, locale.KeyAskDistrict),
			Keyboard: Keyboard{Inline: rows},
		}

	case session.StateAddress:
		return Prompt{
			Text:     locale.Text(lang, locale.KeyAskAddress),
			Keyboard: Keyboard{Remove: true},
		}

	case session.StateLocation:
		return Prompt{
			Text: locale.Text(lang, locale.KeyAskLocation),
			Keyboard: Keyboard{
				Reply: [][]ReplyButton{
					{{Label: locale.Text(lang, locale.KeySendLocation), RequestLocation: true}},
					backRow(lang),
				},
			},
		}

	case session.StateDeliveryDate:
		var rows [][]InlineButton
		for _, d := range e.cfg.Dates.Offer(e.now()) {
			rows = append(rows, []InlineButton{{Label: d, Token: tokenDatePrefix + d}})
		}
		rows = append(rows, inlineBackRow(lang))
		return Prompt{
			Text:     locale.Text(lang, locale.KeyAskDelivery),
			Keyboard: Keyboard{Inline: rows},
		}

	case session.StatePayment:
		return Prompt{
			Text: locale.Text(lang, locale.KeyAskPayment),
			Keyboard: Keyboard{
				Inline: [][]InlineButton{
					{
						{Label: locale.Text(lang, locale.KeyCard), Token: tokenPayPrefix + string(session.PaymentCard)},
						{Label: locale.Text(lang, locale.KeyCash), Token: tokenPayPrefix + string(session.PaymentCash)},
					},
					inlineBackRow(lang),
				},
			},
		}

	case session.StateConfirm:
		return Prompt{
			Text: locale.Text(lang, locale.KeyOrderButton),
			Keyboard: Keyboard{
				Inline: [][]InlineButton{
					{{Label: locale.Text(lang, locale.KeyOrderButton), Token: TokenPlaceOrder}},
					inlineBackRow(lang),
				},
			},
		}
	}

	// Unknown states render the entry prompt.
	return e.promptFor(session.StateLanguage, s)
}

// restartPrompt offers the single "/start" reply button shown after a placed
// order; pressing it makes the client send /start.
func restartPrompt(lang locale.Language) Prompt {
	return Prompt{
		Text: locale.Text(lang, locale.KeyRestart),
		Keyboard: Keyboard{
			Reply: [][]ReplyButton{{{Label: "/start"}}},
		},
	}
}

func replyRow(labels []string) []ReplyButton {
	row := make([]ReplyButton, 0, len(labels))
	for _, l := range labels {
		row = append(row, ReplyButton{Label: l})
	}
	return row
}

func backRow(lang locale.Language) []ReplyButton {
	return []ReplyButton{{Label: locale.Text(lang, locale.KeyBack)}}
}

func inlineBackRow(lang locale.Language) []InlineButton {
	return []InlineButton{{Label: locale.Text(lang, locale.KeyBack), Token: TokenBack}}
}
