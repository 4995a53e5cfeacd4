package assistant

import (
	"github.com/arialabs/aria/consts"
)

// SMSMaxLength is the hard character threshold for the short-form channel.
const SMSMaxLength = 1000

const truncationNotice = "… [Réponse tronquée — retrouvez l'analyse complète sur votre tableau de bord]"

// FormatForChannel applies channel-specific post-processing. Only the
// short-form channel is truncated; everything else passes through.
func FormatForChannel(content, channel string) string {
	if channel != consts.ChannelSMS {
		return content
	}

	runes := []rune(content)
	if len(runes) <= SMSMaxLength {
		return content
	}
	cut := SMSMaxLength - len([]rune(truncationNotice))
	return string(runes[:cut]) + truncationNotice
}
