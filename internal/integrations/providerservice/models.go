package providerservice

// Provider модель провайдера (специалиста) из ProviderService
type Provider struct {
	ID                   int64  `json:"id"`
	OrganizationID       int64  `json:"organization_id"`
	FullName             string `json:"full_name"`
	Timezone             string `json:"timezone"` // IANA, например "Europe/Moscow"; пустая строка - часовой пояс по умолчанию
	AcceptsPublicBooking bool   `json:"accepts_public_booking"`
}
