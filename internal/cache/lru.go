// Package cache реализует ограниченный LRU-кэш для ответов удаленного API.
package cache

import "container/list"

// LRU кэш фиксированной емкости с вытеснением давно не использованных записей.
// Кэш не синхронизирован: доступ защищается блокировкой владеющего региона состояния.
type LRU[V any] struct {
	capacity  int
	evictList *list.List
	items     map[string]*list.Element
}

// entry хранит ключ вместе со значением, чтобы удалять запись из map за O(1)
type entry[V any] struct {
	key   string
	value V
}

// New создает новый LRU-кэш заданной емкости
func New[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = 64
	}

	return &LRU[V]{
		capacity:  capacity,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

// Get возвращает значение по ключу и отмечает запись как недавно использованную
func (c *LRU[V]) Get(key string) (V, bool) {
	if elem, ok := c.items[key]; ok {
		c.evictList.MoveToFront(elem)
		return elem.Value.(*entry[V]).value, true
	}

	var zero V
	return zero, false
}

// Peek возвращает значение по ключу без изменения порядка вытеснения
func (c *LRU[V]) Peek(key string) (V, bool) {
	if elem, ok := c.items[key]; ok {
		return elem.Value.(*entry[V]).value, true
	}

	var zero V
	return zero, false
}

// Contains проверяет наличие ключа без изменения порядка вытеснения
func (c *LRU[V]) Contains(key string) bool {
	_, ok := c.items[key]
	return ok
}

// Put добавляет значение в кэш, вытесняя самую старую запись при переполнении
func (c *LRU[V]) Put(key string, value V) {
	if elem, ok := c.items[key]; ok {
		c.evictList.MoveToFront(elem)
		elem.Value.(*entry[V]).value = value
		return
	}

	elem := c.evictList.PushFront(&entry[V]{key: key, value: value})
	c.items[key] = elem

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

// Delete удаляет запись по ключу
func (c *LRU[V]) Delete(key string) bool {
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
		return true
	}
	return false
}

// Len возвращает количество записей в кэше
func (c *LRU[V]) Len() int {
	return c.evictList.Len()
}

// Capacity возвращает емкость кэша
func (c *LRU[V]) Capacity() int {
	return c.capacity
}

func (c *LRU[V]) removeOldest() {
	if elem := c.evictList.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *LRU[V]) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	delete(c.items, elem.Value.(*entry[V]).key)
}
