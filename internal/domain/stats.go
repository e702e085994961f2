package domain

// BookingStats агрегированная статистика бронирований провайдера
type BookingStats struct {
	Total          int64
	CountsByStatus map[BookingStatus]int64
	// Revenue сумма totalAmount по завершённым бронированиям
	Revenue float64
	// ConversionRate = completed / total, 0 при отсутствии бронирований
	ConversionRate float64
}

// NewBookingStats строит статистику из подсчётов по статусам
func NewBookingStats(counts map[BookingStatus]int64, revenue float64) BookingStats {
	var total int64
	for _, c := range counts {
		total += c
	}

	var conversion float64
	if total > 0 {
		conversion = float64(counts[StatusCompleted]) / float64(total)
	}

	return BookingStats{
		Total:          total,
		CountsByStatus: counts,
		Revenue:        revenue,
		ConversionRate: conversion,
	}
}
