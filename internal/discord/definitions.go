package discord

import "github.com/bwmarrin/discordgo"

const (
	cmdInfo       = "info"
	cmdHardware   = "hardware"
	cmdSpecs      = "specs"
	cmdPrecios    = "precios"
	cmdAyuda      = "ayuda"
	cmdConfig     = "config"
	cmdFamilia    = "familia"
	cmdModeracion = "moderacion"
)

func int64Ptr(v int64) *int64 { return &v }

// commandDefinitions is the global slash command set.
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: cmdInfo, Description: "Información sobre La Mafia del Hardware"},
		{
			Name:        cmdHardware,
			Description: "Información sobre componentes de hardware",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "componente",
				Description: "Tipo de componente",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "CPU", Value: "cpu"},
					{Name: "GPU", Value: "gpu"},
					{Name: "RAM", Value: "ram"},
					{Name: "Motherboard", Value: "mobo"},
					{Name: "Almacenamiento", Value: "storage"},
				},
			}},
		},
		{Name: cmdSpecs, Description: "Comparte las especificaciones de tu PC"},
		{
			Name:        cmdPrecios,
			Description: "Consultar precios de hardware",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "producto",
				Description: "Nombre del producto a buscar",
				Required:    true,
			}},
		},
		{Name: cmdAyuda, Description: "Muestra todos los comandos disponibles"},
		{
			Name:                     cmdConfig,
			Description:              "Configurar el sistema de moderación (solo administradores)",
			DefaultMemberPermissions: int64Ptr(discordgo.PermissionAdministrator),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "accion",
					Description: "Acción a realizar",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Ver configuración", Value: "view"},
						{Name: "Activar moderación", Value: "enable"},
						{Name: "Desactivar moderación", Value: "disable"},
						{Name: "Configurar canales", Value: "channels"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "generales",
					Description: "Canales generales separados por coma",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "ayuda",
					Description: "Canales de ayuda separados por coma",
				},
			},
		},
		{Name: cmdFamilia, Description: "Información sobre las reglas de La Mafia del Hardware"},
		{
			Name:                     cmdModeracion,
			Description:              "Comandos de moderación manual (solo administradores)",
			DefaultMemberPermissions: int64Ptr(discordgo.PermissionKickMembers),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "warn",
					Description: "Advertir a un usuario",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "usuario", Description: "Usuario a advertir", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "razon", Description: "Razón de la advertencia", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "kick",
					Description: "Expulsar a un usuario",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: "usuario", Description: "Usuario a expulsar", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "razon", Description: "Razón de la expulsión"},
					},
				},
			},
		},
	}
}
