package service

import (
	"fmt"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

// Warning templates take the author mention as their only argument.
var warningTemplates = map[model.ViolationCategory][]string{
	model.ViolationSpam: {
		"🔫 %s, el spam no es bienvenido en la familia. *mensaje eliminado*",
		"🎭 Don Corleone no tolera el spam en sus dominios, %s.",
		"⚖️ La familia ha decidido: el spam de %s ha sido... *eliminado*.",
	},
	model.ViolationScam: {
		"🚨 %s, los scams de Steam son traición a la familia. Tu mensaje ha sido eliminado.",
		"🎯 La familia protege a sus miembros de estafas. %s, esto no volverá a pasar.",
		"🛡️ Don Corleone dice: \"Los scams no tienen lugar en nuestra mesa\", %s.",
	},
	model.ViolationAdvertisement: {
		"💼 %s, la publicidad no autorizada es mala para los negocios. *mensaje eliminado*",
		"🏛️ La familia tiene reglas sobre el comercio, %s. Respétalas.",
		"📜 Las reglas de la casa son claras: no publicidad sin permiso, %s.",
	},
}

const repeatWarningTemplate = "🔁 %s, tranquilo con tanto mensaje repetido, capo."

// Redirect templates take the author mention and the help channel mention.
var redirectTemplates = []string{
	"🎩 %[1]s, la familia te recomienda usar %[2]s para tus consultas. Ahí encontrarás la ayuda que necesitas.",
	"🏛️ Don Corleone dice: \"Las preguntas técnicas van en %[2]s\", %[1]s. La familia estará ahí para ayudarte.",
	"⚖️ %[1]s, mantengamos el orden. Para soporte técnico, la familia te espera en %[2]s.",
	"🎭 La etiqueta de la familia: consultas técnicas en %[2]s, %[1]s. Respetemos las tradiciones.",
}

func formatWarning(template string, msg *model.ChatMessage) string {
	return fmt.Sprintf(template, msg.AuthorMention())
}

func formatRedirect(template string, msg *model.ChatMessage, target model.ChannelRef) string {
	return fmt.Sprintf(template, msg.AuthorMention(), target.Mention())
}
