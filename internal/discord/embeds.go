package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

const footerText = "La Mafia del Hardware"

func infoEmbed(status model.BotStatus) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🏴‍☠️ La Mafia del Hardware",
		Description: "Tu comunidad de confianza para todo lo relacionado con hardware de PC",
		Color:       0x7289DA,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎯 Nuestra Misión", Value: "Ayudar a los entusiastas del hardware a tomar las mejores decisiones"},
			{Name: "🔧 Servicios", Value: "• Recomendaciones de hardware\n• Análisis de precios\n• Reviews y comparativas"},
			{Name: "📊 Estadísticas", Value: fmt.Sprintf("Servidores: %d\nMiembros: %d", status.Guilds, status.Users), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText + " • 2025"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type hardwareInfo struct {
	title       string
	description string
	fields      [][2]string
}

var hardwareCatalog = map[string]hardwareInfo{
	"cpu": {
		title:       "🔥 CPUs - El cerebro de tu PC",
		description: "Recomendaciones actuales para diferentes rangos de precio",
		fields: [][2]string{
			{"Gama Alta", "AMD Ryzen 9 7950X"},
			{"Gama Media", "AMD Ryzen 5 7600X"},
			{"Presupuesto", "Intel i3-12100F, AMD Ryzen 5 5600"},
		},
	},
	"gpu": {
		title:       "🎮 GPUs - Potencia gráfica",
		description: "Las mejores tarjetas gráficas para gaming y trabajo",
		fields: [][2]string{
			{"4K Gaming", "RTX 4090, RTX 4080 Super"},
			{"1440p Gaming", "RTX 4070 Super, RX 7800 XT"},
			{"1080p Gaming", "RTX 4060, RX 7600"},
		},
	},
	"ram": {
		title:       "💾 Memoria RAM",
		description: "Configuraciones recomendadas para diferentes usos",
		fields: [][2]string{
			{"Gaming", "32GB DDR4-3200 / DDR5-6000"},
			{"Trabajo/Streaming", "32GB DDR4-3600 / DDR5-6000"},
			{"Workstation", "64GB+ DDR5-6400"},
		},
	},
	"mobo": {
		title:       "🔌 Motherboards",
		description: "La base de tu sistema",
		fields: [][2]string{
			{"Intel", "Z790, B760 para 12 gen, 13 y 14 están baneadas"},
			{"AMD", "X670E, B650 para Ryzen 7000"},
			{"Características", "WiFi 6E, USB 3.2, PCIe 5.0"},
		},
	},
	"storage": {
		title:       "💿 Almacenamiento",
		description: "SSDs y HDDs recomendados",
		fields: [][2]string{
			{"SSD NVMe Gaming", "Samsung 980 Pro, WD SN850X"},
			{"SSD Económico", "A-DATA Legend 800, Crucial MX4"},
			{"Almacenamiento Masivo", "Seagate Barracuda, WD Blue"},
		},
	},
}

func hardwareEmbed(component string) (*discordgo.MessageEmbed, bool) {
	info, ok := hardwareCatalog[component]
	if !ok {
		return nil, false
	}
	fields := make([]*discordgo.MessageEmbedField, len(info.fields))
	for i, f := range info.fields {
		fields[i] = &discordgo.MessageEmbedField{Name: f[0], Value: f[1], Inline: true}
	}
	return &discordgo.MessageEmbed{
		Title:       info.title,
		Description: info.description,
		Color:       0x00FF00,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Precios y disponibilidad pueden variar"},
	}, true
}

func specsEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📋 Comparte tus Specs",
		Description: "Usa este formato para compartir las especificaciones de tu PC:",
		Color:       0xFF6B35,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🖥️ Formato Sugerido",
				Value: "```\n🔥 CPU: [Tu procesador]\n🎮 GPU: [Tu tarjeta gráfica]\n💾 RAM: [Cantidad y tipo]\n🔌 Motherboard: [Modelo]\n💿 Storage: [SSD/HDD]\n⚡ PSU: [Fuente de poder]\n🏠 Case: [Gabinete]\n```",
			},
			{Name: "💡 Tip", Value: "También puedes usar herramientas como HwInfo o CPU-Z para obtener información detallada"},
		},
	}
}

func preciosEmbed(product string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💰 Búsqueda de Precios: " + product,
		Description: "Aquí tienes algunas recomendaciones para encontrar los mejores precios:",
		Color:       0xF39C12,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🛒 Tiendas Recomendadas", Value: "• EvoPC\n• Niceone\n• Myshop\n• Megadrive\n• tienda.pc-express", Inline: true},
			{Name: "💡 Tips de Compra", Value: "• Compara precios\n• Revisa garantías\n• Lee reviews\n• Verifica stock", Inline: true},
			{Name: "⚠️ Importante", Value: "Los precios cambian constantemente. Siempre verifica antes de comprar."},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Búsqueda para: " + product},
	}
}

func ayudaEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🆘 Comandos Disponibles",
		Description: "Lista completa de comandos de La Mafia del Hardware Bot",
		Color:       0x9B59B6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📖 Comandos de Información", Value: "`/info` - Información sobre la comunidad\n`/ayuda` - Muestra esta lista\n`/familia` - Reglas de la familia"},
			{Name: "🔧 Comandos de Hardware", Value: "`/hardware [componente]` - Info sobre componentes\n`/specs` - Formato para compartir specs\n`/precios [producto]` - Buscar precios"},
			{Name: "🔗 Enlaces Útiles", Value: "[PCPartPicker](https://pcpartpicker.com/) • [SoloTodo](https://www.solotodo.cl/)"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText + " Bot"},
	}
}

func familiaEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "👑 Las Reglas de La Mafia del Hardware",
		Description: "En esta familia, el respeto y el honor son fundamentales",
		Color:       0x8B0000,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤝 Código de Honor", Value: "• Respeta a todos los miembros de la familia\n• No spam ni publicidad sin autorización\n• Mantén las discusiones técnicas en los canales apropiados\n• Ayuda a otros miembros cuando sea posible"},
			{Name: "🚫 Actividades Prohibidas", Value: "• Scams o estafas de cualquier tipo\n• Invitaciones no autorizadas a otros servidores\n• Contenido ofensivo o discriminatorio\n• Venta sin autorización de administradores"},
			{Name: "⚖️ Consecuencias", Value: "Las violaciones serán tratadas por el Don y sus consejeros. La disciplina mantiene el orden en la familia."},
			{Name: "🎭 Recuerda", Value: "\"Un hombre que no pasa tiempo con su familia nunca puede ser un verdadero hombre\" - Don Corleone"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText + " • Respeto • Honor • Lealtad"},
	}
}

func configViewEmbed(cfg model.ChannelConfig, enabled bool, monitored int) *discordgo.MessageEmbed {
	state := "🟢 Activo"
	if !enabled {
		state = "🔴 Desactivado"
	}
	scope := "Todos los canales"
	if monitored > 0 {
		scope = fmt.Sprintf("%d canales configurados", monitored)
	}
	return &discordgo.MessageEmbed{
		Title:       "⚙️ Configuración de Moderación",
		Description: "Sistema de moderación automática de La Mafia del Hardware",
		Color:       0x2C3E50,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🛡️ Sistema de Moderación", Value: state, Inline: true},
			{Name: "👁️ Canales monitoreados", Value: scope, Inline: true},
			{Name: "📢 Canales Generales", Value: joinNames(cfg.GeneralChannels)},
			{Name: "🆘 Canales de Ayuda", Value: joinNames(cfg.HelpChannels)},
			{Name: "🔍 Funciones Activas", Value: "• Detección de spam, scams y publicidad\n• Auto-redirección desde chat general\n• Detección de mensajes repetidos\n• Dashboard en tiempo real"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText + " - Sistema de Moderación"},
	}
}

func channelsEmbed(cfg model.ChannelConfig, updated bool) *discordgo.MessageEmbed {
	description := "Para modificar los canales usa `/config accion:channels generales:<lista> ayuda:<lista>`"
	if updated {
		description = "✅ Configuración de canales actualizada"
	}
	return &discordgo.MessageEmbed{
		Title:       "📋 Configuración de Canales",
		Description: description,
		Color:       0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📢 Canales Generales (auto-redirección)", Value: joinNames(cfg.GeneralChannels)},
			{Name: "🆘 Canales de Ayuda (destino)", Value: joinNames(cfg.HelpChannels)},
			{Name: "💡 Nota", Value: "El bot detecta automáticamente canales de ayuda que contengan estos nombres"},
		},
	}
}

func warnEmbed(target, reason, moderator string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚠️ Advertencia de La Familia",
		Description: target + " ha recibido una advertencia oficial",
		Color:       0xFF8C00,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Usuario", Value: target, Inline: true},
			{Name: "📝 Razón", Value: reason, Inline: true},
			{Name: "👮 Moderador", Value: moderator, Inline: true},
			{Name: "🎭 Mensaje de La Familia", Value: "La familia espera que respetes las reglas. Esta es tu oportunidad de redimirte."},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func kickEmbed(target, reason, moderator string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔨 Expulsión de La Familia",
		Description: "Un miembro ha sido removido de la familia",
		Color:       0xFF0000,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Usuario Expulsado", Value: target, Inline: true},
			{Name: "📝 Razón", Value: reason, Inline: true},
			{Name: "👮 Moderador", Value: moderator, Inline: true},
			{Name: "🎭 Decisión Final", Value: "La familia ha decidido. Que sirva de ejemplo para otros."},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "*(ninguno)*"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "`" + n + "`"
	}
	return strings.Join(quoted, ", ")
}
