package model

import "sort"

// CleanupArtistAlbums приводит дискографию исполнителя к виду для отображения:
// сортирует по дате релиза по возрастанию и удаляет альбомы с одинаковыми
// названиями (делюксы и переиздания), оставляя хронологически последний
// экземпляр каждого названия.
func CleanupArtistAlbums(albums []Album) []Album {
	sorted := make([]Album, len(albums))
	copy(sorted, albums)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReleaseDate < sorted[j].ReleaseDate
	})

	// Свертка с конца: первое увиденное название побеждает,
	// итоговый порядок остается по возрастанию даты
	seen := make(map[string]struct{}, len(sorted))
	kept := make([]Album, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		if _, ok := seen[sorted[i].Name]; ok {
			continue
		}
		seen[sorted[i].Name] = struct{}{}
		kept = append(kept, sorted[i])
	}

	// Восстанавливаем порядок по возрастанию даты
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	return kept
}
