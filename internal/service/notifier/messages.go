package notifier

import (
	"strings"

	"tracking-service/internal/entities"
)

// CustomerMessage текст сообщения клиенту. Пустая строка: событие клиенту не отправляется.
func CustomerMessage(message entities.NotificationMessage, trackingURL string) string {
	switch message.Event {
	case entities.NotificationCourierAssigned:
		text := "seu pedido foi atribuído a um entregador!"
		if trackingURL != "" {
			text += " Acompanhe sua entrega em tempo real: " + trackingURL
		}
		if name := strings.TrimSpace(message.CustomerName); name != "" {
			return "Olá " + name + ", " + text
		}
		return "S" + strings.TrimPrefix(text, "s")
	case entities.NotificationStatusChanged:
		switch message.Status {
		case entities.DeliveryEnRoute.String():
			return "Seu entregador está a caminho para buscar seu pedido!"
		case entities.DeliveryLeftPickup.String():
			return "Seu pedido saiu para entrega!"
		}
		return ""
	case entities.NotificationArriving:
		return "Seu entregador está chegando!"
	case entities.NotificationArrivedDropoff:
		return "Seu entregador chegou ao endereço de entrega."
	case entities.NotificationDelivered:
		return "Seu pedido foi entregue com sucesso! Obrigado por escolher nossos serviços."
	case entities.NotificationCanceled:
		return "Infelizmente seu pedido foi cancelado. Entre em contato conosco para mais informações."
	default:
		return ""
	}
}
