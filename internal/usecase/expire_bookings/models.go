package expire_bookings

// Result итог одного прохода
type Result struct {
	Scanned int // найдено pending бронирований с истёкшим окном оплаты
	Expired int // переведено в expired
	Skipped int // изменены параллельно (например, оплачены) и пропущены
	Failed  int // ошибки при обновлении
}
