// Package pages contenido estático de las páginas informativas.
package pages

import "github.com/jhoicas/aura-storefront/internal/application/dto"

// About página "Acerca de".
func About() dto.AboutView {
	return dto.AboutView{
		Eyebrow:  "Acerca de AURA",
		Title:    "Una vitrina digital para productos curados",
		Subtitle: "Diseñamos experiencias limpias para mostrar productos con datos en tiempo real.",
		Values: []dto.InfoCard{
			{Title: "Selección curada", Description: "Mostramos solo productos seleccionados para destacar calidad y estilo."},
			{Title: "Datos en tiempo real", Description: "Listados sincronizados con Supabase para mantener el catálogo siempre actualizado."},
			{Title: "Fácil de usar", Description: "Interfaz limpia, accesible y pensada para convertir visitantes en clientes."},
		},
		Mission: dto.InfoCard{
			Title: "Conectar productos con personas",
			Description: "AURA nació para facilitar la presentación de productos seleccionados, ofreciendo una experiencia " +
				"visual coherente y datos confiables. Pensamos en la simplicidad del editor y en la velocidad " +
				"para el usuario final.",
		},
	}
}

// Contact página de contacto.
func Contact() dto.ContactView {
	return dto.ContactView{
		Title: "Hablemos de tu próximo proyecto",
		Subtitle: "Estamos aquí para ayudarte. Ya sea una duda técnica, consulta comercial o simplemente quieres " +
			"decir hola, estamos a un mensaje de distancia.",
		Channels: []dto.InfoCard{
			{Title: "Email", Value: "info@aura.com", Description: "Soporte 24/7"},
			{Title: "Teléfono", Value: "+34 676 76 67 67", Description: "Lun-Vie 9:00-18:00"},
			{Title: "Oficina", Value: "Calle Rosa, Melano 69", Description: "España"},
			{Title: "Global", Value: "aura-tech.com", Description: "Presencia internacional"},
		},
		Business: dto.InfoCard{
			Title: "¿Eres una empresa?",
			Description: "Ofrecemos planes personalizados y descuentos por volumen para empresas y distribuidores. " +
				"Consúltanos por nuestra sección B2B.",
		},
		FAQ: []dto.InfoCard{
			{Title: "¿Cuál es el tiempo de entrega?", Description: "Los pedidos se entregan en 24-48h laborables en la península."},
			{Title: "¿Puedo devolver un producto?", Description: "Tienes 30 días naturales para devoluciones de forma gratuita."},
			{Title: "¿Ofrecen garantía oficial?", Description: "Todos los productos cuentan con 3 años de garantía oficial."},
		},
	}
}
