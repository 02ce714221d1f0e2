// Package docs Trip Impact Service API.
//
// Сервис оценки влияния перекрытия дорог на время поездки.
// Описание поездки на естественном языке превращается в сценарий симуляции,
// прогон показывает использованные дороги, повторный прогон с перекрытиями
// даёт среднее время в пути и максимальную задержку.
//
// Основные возможности:
// - Генерация сценария из описания поездки
// - Повторный прогон с перекрытыми дорогами
// - История прогонов
// - Сводка загруженной карты
//
// Спецификация регенерируется командой swag init -g cmd/api/main.go
package docs
