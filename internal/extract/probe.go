package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
)

// jsPrelude defines the element helpers every probe script shares.
// lookupAll takes both CSS and XPath selectors, XPath being anything that
// starts with "//". visible mirrors Selenium's is_displayed: a non-zero
// rendered box that is not hidden by style.
const jsPrelude = `
	function lookupAll(sel) {
		if (sel.startsWith('//')) {
			const out = [];
			const it = document.evaluate(sel, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
			for (let i = 0; i < it.snapshotLength; i++) out.push(it.snapshotItem(i));
			return out;
		}
		try { return Array.from(document.querySelectorAll(sel)); } catch (e) { return []; }
	}
	function visible(el) {
		const rect = el.getBoundingClientRect();
		if (rect.width <= 0 || rect.height <= 0) return false;
		const style = window.getComputedStyle(el);
		return style.display !== 'none' && style.visibility !== 'hidden';
	}
`

// frameInfo is one iframe candidate as seen from the page context.
type frameInfo struct {
	Selector string `json:"selector"`
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Src      string `json:"src"`
	Title    string `json:"title"`
	Visible  bool   `json:"visible"`
}

// clickResult reports what a click probe found and did.
type clickResult struct {
	Clicked  bool   `json:"clicked"`
	Selector string `json:"selector"`
	Text     string `json:"text"`
}

// textResult is the outcome of a first-visible-text probe.
type textResult struct {
	Found    bool   `json:"found"`
	Selector string `json:"selector"`
	Text     string `json:"text"`
}

// tabTarget reports the tab collection state for index-based actions.
type tabTarget struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// frameSnapshots enumerates every element the iframe selector list matches,
// in list order, with the attributes acceptance needs. Runs in the page
// context: attribute reads work cross-origin even though the document
// behind the frame does not.
func frameSnapshots(ctx context.Context, selectors []string) ([]frameInfo, error) {
	script := fmt.Sprintf(`(() => {
	%s
	const out = [];
	for (const sel of %s) {
		const matches = lookupAll(sel);
		for (let i = 0; i < matches.length; i++) {
			const el = matches[i];
			out.push({
				selector: sel,
				index: i,
				id: el.id || '',
				src: el.src || '',
				title: el.title || '',
				visible: visible(el),
			});
		}
	}
	return out;
})()`, jsPrelude, mustJSON(selectors))

	var frames []frameInfo
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &frames)); err != nil {
		return nil, err
	}
	return frames, nil
}

// clickFirstVisible walks the selector list in order and clicks the first
// visible match via direct event dispatch. Direct dispatch works on
// elements a simulated pointer would refuse to reach.
func clickFirstVisible(ctx context.Context, selectors []string) (clickResult, error) {
	script := fmt.Sprintf(`(() => {
	%s
	for (const sel of %s) {
		for (const el of lookupAll(sel)) {
			if (!visible(el)) continue;
			const text = (el.innerText || '').trim();
			el.click();
			return {clicked: true, selector: sel, text: text};
		}
	}
	return {clicked: false, selector: '', text: ''};
})()`, jsPrelude, mustJSON(selectors))

	var res clickResult
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &res))
	return res, err
}

// firstVisibleText returns the text of the first visible match whose
// trimmed innerText is longer than minLen.
func firstVisibleText(ctx context.Context, selectors []string, minLen int) (textResult, error) {
	script := fmt.Sprintf(`(() => {
	%s
	const minLen = %d;
	for (const sel of %s) {
		for (const el of lookupAll(sel)) {
			if (!visible(el)) continue;
			const text = (el.innerText || '').trim();
			if (text.length > minLen) return {found: true, selector: sel, text: text};
		}
	}
	return {found: false, selector: '', text: ''};
})()`, jsPrelude, minLen, mustJSON(selectors))

	var res textResult
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &res))
	return res, err
}

// countTabs reports how many elements the tab selector union matches.
func countTabs(ctx context.Context, tabsSelector string) (int, error) {
	script := fmt.Sprintf(`(() => {
	%s
	return lookupAll(%s).length;
})()`, jsPrelude, mustJSON(tabsSelector))

	var count int
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &count))
	return count, err
}

// tabAction re-locates the tab collection and runs one statement against
// tabs[index]. Re-locating on every call avoids acting on elements a prior
// DOM mutation replaced.
func tabAction(ctx context.Context, tabsSelector string, index int, stmt string) (tabTarget, error) {
	script := fmt.Sprintf(`(() => {
	%s
	const tabs = lookupAll(%s);
	if (%d >= tabs.length) return {ok: false, count: tabs.length};
	%s
	return {ok: true, count: tabs.length};
})()`, jsPrelude, mustJSON(tabsSelector), index, stmt)

	var res tabTarget
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &res))
	return res, err
}

func scrollTabIntoView(ctx context.Context, tabsSelector string, index int) (tabTarget, error) {
	return tabAction(ctx, tabsSelector, index, fmt.Sprintf(`tabs[%d].scrollIntoView({block: 'center'});`, index))
}

func clickTabAt(ctx context.Context, tabsSelector string, index int) (tabTarget, error) {
	return tabAction(ctx, tabsSelector, index, fmt.Sprintf(`tabs[%d].click();`, index))
}

// pageText returns the whole body text of the current document.
func pageText(ctx context.Context) (string, error) {
	var text string
	err := chromedp.Run(ctx, chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &text))
	return text, err
}

// presenceExpr builds the expression polled while waiting for the extension
// to inject its iframe. Presence is enough at this stage, visibility is
// checked later during acceptance.
func presenceExpr(selectors []string) string {
	return fmt.Sprintf(`(() => {
	%s
	return %s.some(sel => lookupAll(sel).length > 0);
})()`, jsPrelude, mustJSON(selectors))
}
