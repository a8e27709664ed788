// Package idealista extracts navigation pages, listing details and the
// region index from idealista.com pages rendered in a browser session.
package idealista

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/models"
)

const (
	BaseURL = "https://www.idealista.com"

	navigationReady = "main#main-content > section.items-container"
	listingReady    = "main.detail-container > section.detail-info"
	indexReady      = "section#municipality-search"

	DefaultReadyTimeout = 20 * time.Second
)

var (
	digitsRe = regexp.MustCompile(`\d+`)
	roomsRe  = regexp.MustCompile(`(?i)\d+\s*hab`)
	floorRe  = regexp.MustCompile(`(?i)planta`)
)

// NoFloor is recorded when the features do not mention a floor.
const NoFloor = "Sin planta"

// Extractor implements crawler.PageExtractor for idealista.
type Extractor struct {
	readyTimeout time.Duration
	logger       logging.Logger
}

func NewExtractor(readyTimeout time.Duration, logger logging.Logger) *Extractor {
	if readyTimeout <= 0 {
		readyTimeout = DefaultReadyTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Extractor{readyTimeout: readyTimeout, logger: logger}
}

// load navigates to pageURL, waits for selector and parses the rendered DOM.
// It also returns the URL the browser ended on, used to resolve links.
func (e *Extractor) load(ctx context.Context, session crawler.Session, pageURL, selector string) (*goquery.Document, string, error) {
	if err := session.Navigate(ctx, pageURL); err != nil {
		return nil, "", fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, e.readyTimeout)
	defer cancel()
	if err := session.WaitReady(waitCtx, selector); err != nil {
		return nil, "", err
	}

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("read page html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", fmt.Errorf("%w: parse html: %v", crawler.ErrExtraction, err)
	}

	current := pageURL
	if u, err := session.CurrentURL(ctx); err == nil && u != "" {
		current = u
	}
	return doc, current, nil
}

// ExtractNavigationPage collects listing links and the next results page.
func (e *Extractor) ExtractNavigationPage(ctx context.Context, session crawler.Session, pageURL string) (models.NavigationPage, error) {
	doc, current, err := e.load(ctx, session, pageURL, navigationReady)
	if err != nil {
		return models.NavigationPage{}, err
	}

	container := doc.Find(navigationReady).First()
	var page models.NavigationPage
	container.Find("article.item").Each(func(_ int, article *goquery.Selection) {
		href, ok := article.Find("a.item-link").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		if abs, err := resolve(current, href); err == nil {
			page.ListingURLs = append(page.ListingURLs, abs)
		}
	})

	if href, ok := doc.Find("div.pagination li.next > a").First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		if abs, err := resolve(current, href); err == nil {
			page.NextPageURL = abs
		}
	}
	return page, nil
}

// ExtractListing parses a listing detail page.
func (e *Extractor) ExtractListing(ctx context.Context, session crawler.Session, pageURL string) (models.ListingRecord, error) {
	id, ok := models.ListingIDFromURL(pageURL)
	if !ok {
		return models.ListingRecord{}, fmt.Errorf("%w: no listing id in %s", crawler.ErrExtraction, pageURL)
	}

	doc, current, err := e.load(ctx, session, pageURL, listingReady)
	if err != nil {
		return models.ListingRecord{}, err
	}
	main := doc.Find(listingReady).First()

	title := text(main.Find("div.main-info__title > h1 > span"))
	if title == "" {
		return models.ListingRecord{}, fmt.Errorf("%w: missing title on %s", crawler.ErrExtraction, pageURL)
	}
	priceText := text(main.Find("div.info-data > span.info-data-price > span"))
	price, err := parseNumber(priceText)
	if err != nil {
		return models.ListingRecord{}, fmt.Errorf("%w: price %q on %s", crawler.ErrExtraction, priceText, pageURL)
	}

	record := models.ListingRecord{
		ID:       id,
		URL:      current,
		Title:    title,
		Location: text(main.Find("div.main-info__title > span > span")),
		Price:    price,
	}

	anchors := main.Find("div.fake-anchors").First()
	record.NumPhotos = firstNumber(text(anchors.Find("button.icon-no-pics > span")))
	record.FloorPlan = anchors.Find("button.icon-plan").Length() > 0
	record.View3D = anchors.Find("button.icon-3d-tour-outline").Length() > 0
	record.Video = anchors.Find("button.icon-videos").Length() > 0
	record.HomeStaging = anchors.Find("button.icon-homestaging").Length() > 0

	applyFeatures(&record, main.Find("div.info-features > span"))

	description := text(main.Find("div.commentsContainer div.comment div.adCommentsLanguage > p"))
	record.Description = strings.Join(strings.Fields(description), " ")

	if record.NumPhotos > 0 {
		doc.Find("div#main-multimedia div.image > img").Each(func(_ int, img *goquery.Selection) {
			src, ok := img.Attr("data-ondemand-img")
			if !ok || src == "" {
				src, ok = img.Attr("src")
			}
			if ok && src != "" {
				record.PhotoURLs = append(record.PhotoURLs, src)
			}
		})
	}
	return record, nil
}

// applyFeatures reads area, rooms and floor. The second feature span is
// rooms when it reads like "3 hab.", otherwise it is the floor. Any floor
// text that does not mention a planta becomes NoFloor.
func applyFeatures(record *models.ListingRecord, features *goquery.Selection) {
	if features.Length() >= 1 {
		record.Area = firstNumber(spanText(features.Eq(0)))
	}
	if features.Length() >= 2 {
		second := text(features.Eq(1))
		if roomsRe.MatchString(second) {
			record.Rooms = firstNumber(second)
		} else {
			record.Floor = spanText(features.Eq(1))
		}
	}
	if features.Length() >= 3 {
		record.Floor = text(features.Eq(2))
	}
	if !floorRe.MatchString(record.Floor) {
		record.Floor = NoFloor
	}
}

// ExtractRegions lists the regions of the site index with their listing counts.
// A region whose count cannot be read gets math.MaxInt so it is crawled last.
func (e *Extractor) ExtractRegions(ctx context.Context, session crawler.Session, indexURL string) ([]models.Region, error) {
	doc, current, err := e.load(ctx, session, indexURL, indexReady)
	if err != nil {
		return nil, err
	}

	var regions []models.Region
	doc.Find("section#municipality-search div.locations-list ul > li").Each(func(_ int, item *goquery.Selection) {
		href, ok := item.Find("a").First().Attr("href")
		if !ok || href == "" {
			return
		}
		abs, err := resolve(current, href)
		if err != nil {
			return
		}
		raw := text(item.Find("p"))
		count, err := parseNumber(raw)
		if err != nil {
			e.logger.WithFields(logging.Fields{"url": abs, "count": raw}).Warn("unreadable region listing count, crawling it last")
			count = math.MaxInt
		}
		regions = append(regions, models.Region{
			URL:          strings.TrimSuffix(abs, "municipios"),
			ListingCount: count,
		})
	})
	return regions, nil
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.First().Text())
}

// spanText prefers the nested span holding the value ("80" in "<span>80</span> m²").
func spanText(s *goquery.Selection) string {
	if inner := s.Find("span"); inner.Length() > 0 {
		return text(inner)
	}
	return text(s)
}

// parseNumber reads counts and prices written with dot thousands separators.
func parseNumber(s string) (int, error) {
	cleaned := strings.NewReplacer(".", "", " ", "", "€", "", "\u00a0", "").Replace(s)
	return strconv.Atoi(cleaned)
}

func firstNumber(s string) int {
	n, _ := strconv.Atoi(digitsRe.FindString(s))
	return n
}

func resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}
