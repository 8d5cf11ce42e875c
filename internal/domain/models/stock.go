package models

// StockEntry — запись о наличии товара.
// InStock хранится как число: БД может отдавать 0/1, приведение к bool делает сервис.
type StockEntry struct {
	ProductID string
	InStock   int
}
