package normalize

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestInstant_ThreeFormsEqual(t *testing.T) {
	want := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

	native := Instant(want)
	fromString := Instant(want.Format(time.RFC3339Nano))
	fromWrapper := Instant(map[string]interface{}{"seconds": float64(want.Unix())})

	if !native.Equal(want) {
		t.Fatalf("канонический instant искажён: %v", native)
	}
	if !fromString.Equal(want) {
		t.Fatalf("строка RFC3339 дала другой instant: %v", fromString)
	}
	if !fromWrapper.Equal(want) {
		t.Fatalf("обёртка {seconds} дала другой instant: %v", fromWrapper)
	}
}

func TestInstant_AbsentIsZero(t *testing.T) {
	if !Instant(nil).IsZero() {
		t.Fatal("отсутствующая метка времени должна давать нулевой instant, а не «сейчас»")
	}
	if !Instant(42).IsZero() {
		t.Fatal("неизвестная форма метки времени должна давать нулевой instant")
	}
}

func TestArticle_DefaultEmptyCollections(t *testing.T) {
	a := Article("a1", map[string]interface{}{"title": "Без тегов"})
	if a.Tags == nil {
		t.Fatal("tags при отсутствии поля должен быть пустым срезом, а не nil")
	}
	if len(a.Tags) != 0 {
		t.Fatalf("ожидался пустой список тегов, получено %v", a.Tags)
	}

	p := Profile("u1", map[string]interface{}{})
	if p.SavedArticles == nil || p.BookmarkedResources == nil {
		t.Fatal("коллекционные поля профиля должны быть пустыми срезами")
	}
	if p.Role != "user" {
		t.Fatalf("роль по умолчанию должна быть user, получено %q", p.Role)
	}
}

func TestArticle_Idempotent(t *testing.T) {
	first := Article("a1", map[string]interface{}{
		"title":     "Интро",
		"slug":      "intro",
		"summary":   "кратко",
		"content":   "<p>текст</p>",
		"author":    "Иван",
		"authorId":  "u1",
		"category":  "Программирование",
		"tags":      []interface{}{"go", "backend"},
		"imageUrl":  "",
		"published": true,
		"featured":  false,
		"readTime":  float64(5),
		"createdAt": "2024-05-17T10:30:00Z",
		"updatedAt": "2024-05-17T10:30:00Z",
	})

	// Прогоняем нормализованную сущность через json обратно в сырую запись —
	// повторная нормализация не должна ничего менять.
	buf, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(buf, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	second := Article(first.ID, raw)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("нормализация не идемпотентна:\nбыло: %+v\nстало: %+v", first, second)
	}
}

func TestArticle_UnknownFieldsDropped(t *testing.T) {
	a := Article("a1", map[string]interface{}{
		"title":        "Заголовок",
		"_internal":    "мусор",
		"legacy_field": 123,
	})
	if a.Title != "Заголовок" {
		t.Fatalf("известное поле потеряно: %+v", a)
	}
	// лишние поля просто не попадают в закрытую форму сущности
	if a.Slug != "" || a.Category != "" {
		t.Fatalf("незаполненные поля должны остаться нулевыми: %+v", a)
	}
}

func TestSubscriber_WrapperTimestamp(t *testing.T) {
	s := Subscriber("n1", map[string]interface{}{
		"email":        "a@x.com",
		"name":         "Анна",
		"active":       true,
		"subscribedAt": map[string]interface{}{"seconds": float64(1715942400)},
	})
	want := time.Unix(1715942400, 0).UTC()
	if !s.SubscribedAt.Equal(want) {
		t.Fatalf("subscribedAt: ожидалось %v, получено %v", want, s.SubscribedAt)
	}
	if len(s.Categories) != 0 || s.Categories == nil {
		t.Fatalf("categories должен быть пустым срезом: %v", s.Categories)
	}
}
