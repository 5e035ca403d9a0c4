package models

// Feature перечисляет закрытые разделы приложения, доступ к которым
// зависит от состояния пробного периода или подписки. Сегодня все
// разделы закрываются одним предикатом, но перечисление осмысленно:
// в будущем тарифы смогут открывать разделы по отдельности.
type Feature int

const (
	// FeatureMinilanding — публичная страница записи.
	FeatureMinilanding Feature = iota
	// FeatureProfile — редактирование профиля бизнеса.
	FeatureProfile
	// FeatureEmployees — управление сотрудниками.
	FeatureEmployees
	// FeatureServices — управление услугами.
	FeatureServices
	// FeatureCreateAppointments — создание записей клиентов.
	FeatureCreateAppointments
)

// String возвращает имя раздела для логов и ответов API.
func (f Feature) String() string {
	switch f {
	case FeatureMinilanding:
		return "minilanding"
	case FeatureProfile:
		return "profile"
	case FeatureEmployees:
		return "employees"
	case FeatureServices:
		return "services"
	case FeatureCreateAppointments:
		return "create_appointments"
	default:
		return "unknown"
	}
}
